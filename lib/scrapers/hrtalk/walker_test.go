package hrtalk

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hrtalk-scraper/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

const (
	walkTopicUrl = "https://hyperreal.info/talk/slug-t100.html"
	walkPage2Url = "https://hyperreal.info/talk/slug-t100-10.html"
	walkPage3Url = "https://hyperreal.info/talk/slug-t100-20.html"
)

// threePageTopic serves a topic with 2, 2 and 1 posts on its pages.
func threePageTopic() *fakeFetcher {
	fetcher := newFakeFetcher()
	fetcher.pages[walkTopicUrl] = renderPage(1, 3, []testPost{
		{id: 1, author: "a"},
		{id: 2, author: "b", coloured: true},
	})
	fetcher.pages[walkPage2Url] = renderPage(2, 3, []testPost{
		{id: 3, author: "a"},
		{id: 4, author: "c"},
	})
	fetcher.pages[walkPage3Url] = renderPage(3, 3, []testPost{
		{id: 5, author: "b"},
	})
	return fetcher
}

func postIds(posts []Post) []string {
	var ids []string
	for _, p := range posts {
		ids = append(ids, p.Url[strings.LastIndex(p.Url, "#")+1:])
	}
	return ids
}

func TestWalkThreePages(t *testing.T) {
	fetcher := threePageTopic()
	rec := &telemetry.Recorder{}
	walker := NewWalker(fetcher, rec)

	posts, err := walker.WalkAll(context.Background(), walkTopicUrl)
	require.NoError(t, err)

	require.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, postIds(posts))
	for _, p := range posts {
		require.Equal(t, walkTopicUrl, p.TopicUrl)
	}
	require.Equal(t, []string{walkTopicUrl, walkPage2Url, walkPage3Url}, fetcher.Calls())
	require.Empty(t, rec.Reports(telemetry.REPORT_BROKEN))
	require.Empty(t, rec.Reports(telemetry.REPORT_WARNING))
}

func TestWalkFromLaterPage(t *testing.T) {
	fetcher := threePageTopic()
	walker := NewWalker(fetcher, &telemetry.Recorder{})

	posts, err := walker.WalkAll(context.Background(), walkPage2Url)
	require.NoError(t, err)
	require.Len(t, posts, 5)
	require.Equal(t, walkTopicUrl, posts[0].TopicUrl)
	require.Equal(t, []string{walkTopicUrl, walkPage2Url, walkPage3Url}, fetcher.Calls())
}

func TestWalkSinglePageWithoutPager(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[walkTopicUrl] = renderPage(0, 0, []testPost{
		{id: 1, author: "a"},
		{id: 2, author: "a"},
	})
	walker := NewWalker(fetcher, &telemetry.Recorder{})

	posts, err := walker.WalkAll(context.Background(), walkTopicUrl)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, []string{walkTopicUrl}, fetcher.Calls())
}

func TestWalkTransportErrorMidway(t *testing.T) {
	fetcher := threePageTopic()
	fetcher.errors[walkPage2Url] = &TransportError{Url: walkPage2Url, StatusCode: 503}
	rec := &telemetry.Recorder{}
	walker := NewWalker(fetcher, rec)

	var posts []Post
	var errs []error
	for post, err := range walker.Walk(context.Background(), walkTopicUrl) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		posts = append(posts, post)
	}

	require.Equal(t, []string{"p1", "p2"}, postIds(posts))
	require.Len(t, errs, 1)

	var transport *TransportError
	require.True(t, errors.As(errs[0], &transport))
	require.Equal(t, 503, transport.StatusCode)
	require.Equal(t, walkPage2Url, transport.Url)

	require.Equal(t, []string{walkTopicUrl, walkPage2Url}, fetcher.Calls())
	require.Len(t, rec.Reports(telemetry.REPORT_BROKEN), 1)
}

func TestWalkAllReturnsPartialPosts(t *testing.T) {
	fetcher := threePageTopic()
	delete(fetcher.pages, walkPage3Url)
	walker := NewWalker(fetcher, &telemetry.Recorder{})

	posts, err := walker.WalkAll(context.Background(), walkTopicUrl)
	require.Error(t, err)
	require.Equal(t, []string{"p1", "p2", "p3", "p4"}, postIds(posts))
}

func TestWalkFirstPageFailure(t *testing.T) {
	fetcher := newFakeFetcher()
	walker := NewWalker(fetcher, &telemetry.Recorder{})

	posts, err := walker.WalkAll(context.Background(), walkTopicUrl)
	require.Empty(t, posts)
	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	require.Equal(t, 404, transport.StatusCode)
}

func TestWalkStopsWhenConsumerBreaks(t *testing.T) {
	fetcher := threePageTopic()
	walker := NewWalker(fetcher, &telemetry.Recorder{})

	var posts []Post
	for post, err := range walker.Walk(context.Background(), walkTopicUrl) {
		require.NoError(t, err)
		posts = append(posts, post)
		if len(posts) == 3 {
			break
		}
	}

	require.Equal(t, []string{"p1", "p2", "p3"}, postIds(posts))
	require.Equal(t, []string{walkTopicUrl, walkPage2Url}, fetcher.Calls())
}

func TestWalkCancelledContext(t *testing.T) {
	fetcher := threePageTopic()
	walker := NewWalker(fetcher, &telemetry.Recorder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	posts, err := walker.WalkAll(ctx, walkTopicUrl)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, posts)
	require.Empty(t, fetcher.Calls())
}

func TestWalkCancelledMidway(t *testing.T) {
	fetcher := threePageTopic()
	walker := NewWalker(fetcher, &telemetry.Recorder{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var posts []Post
	var walkErr error
	for post, err := range walker.Walk(ctx, walkTopicUrl) {
		if err != nil {
			walkErr = err
			break
		}
		posts = append(posts, post)
		if len(posts) == 2 {
			cancel()
		}
	}

	require.ErrorIs(t, walkErr, context.Canceled)
	require.Len(t, posts, 2)
	require.Equal(t, []string{walkTopicUrl}, fetcher.Calls())
}

func TestWalkMalformedPost(t *testing.T) {
	const malformed = `<div class="timeline-post position-relative clearfix"><a class="post-title" href="/p9">t</a></div>`

	newFetcher := func() *fakeFetcher {
		fetcher := threePageTopic()
		page := fetcher.pages[walkPage2Url]
		fetcher.pages[walkPage2Url] = strings.Replace(page, "</body>", malformed+"</body>", 1)
		return fetcher
	}

	t.Run("strict", func(t *testing.T) {
		fetcher := newFetcher()
		rec := &telemetry.Recorder{}
		walker := NewWalker(fetcher, rec)

		posts, err := walker.WalkAll(context.Background(), walkTopicUrl)
		require.ErrorIs(t, err, ErrStructural)
		require.Equal(t, []string{"p1", "p2", "p3", "p4"}, postIds(posts))

		var structural *StructuralError
		require.True(t, errors.As(err, &structural))
		require.Equal(t, walkPage2Url, structural.Url)
		require.Equal(t, 2, structural.Index)
		require.Equal(t, "author_url", structural.Field)

		require.Equal(t, []string{walkTopicUrl, walkPage2Url}, fetcher.Calls())
		require.Len(t, rec.Reports(telemetry.REPORT_BROKEN), 1)
	})

	t.Run("skip malformed", func(t *testing.T) {
		fetcher := newFetcher()
		rec := &telemetry.Recorder{}
		walker := NewWalker(fetcher, rec, WithSkipMalformed(true))

		posts, err := walker.WalkAll(context.Background(), walkTopicUrl)
		require.NoError(t, err)
		require.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, postIds(posts))

		warnings := rec.Reports(telemetry.REPORT_WARNING)
		require.Len(t, warnings, 1)
		require.Equal(t, "hrtalk_walker: "+report_walker_skip_post, warnings[0].Id)
		require.Empty(t, rec.Reports(telemetry.REPORT_BROKEN))
	})
}

func TestWalkBrokenPager(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[walkTopicUrl] = `<span class="fw-normal">Strona <strong>1</strong> z <strong>?</strong></span>` +
		renderPage(0, 0, []testPost{{id: 1, author: "a"}})
	walker := NewWalker(fetcher, &telemetry.Recorder{})

	posts, err := walker.WalkAll(context.Background(), walkTopicUrl)
	require.ErrorIs(t, err, ErrStructural)
	// posts of page 1 are emitted before its pager is read
	require.Len(t, posts, 1)
	require.Equal(t, []string{walkTopicUrl}, fetcher.Calls())
}

func TestWalkIsRestartable(t *testing.T) {
	fetcher := threePageTopic()
	walker := NewWalker(fetcher, &telemetry.Recorder{})
	seq := walker.Walk(context.Background(), walkTopicUrl)

	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}

	require.Equal(t, 5, count())
	require.Equal(t, 5, count())
	require.Len(t, fetcher.Calls(), 6)
}

func TestPages(t *testing.T) {
	fetcher := threePageTopic()
	walker := NewWalker(fetcher, &telemetry.Recorder{})

	pages, err := walker.Pages(context.Background(), walkPage3Url)
	require.NoError(t, err)
	require.Equal(t, []string{walkTopicUrl, walkPage2Url, walkPage3Url}, pages)
	require.Equal(t, []string{walkTopicUrl}, fetcher.Calls())
}
