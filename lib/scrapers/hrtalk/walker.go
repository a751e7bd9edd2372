package hrtalk

import (
	"bytes"
	"context"
	"fmt"
	"iter"

	"hrtalk-scraper/internal/assert"
	"hrtalk-scraper/internal/components/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Walker walks every page of a topic, one page at a time.
type Walker struct {
	fetcher       Fetcher
	tel           telemetry.API
	skipMalformed bool
}

type WalkerOption func(*Walker)

// WithSkipMalformed makes the walker skip posts that fail extraction (reporting
// them as warnings) instead of aborting the walk on the first one.
func WithSkipMalformed(skip bool) WalkerOption {
	return func(w *Walker) {
		w.skipMalformed = skip
	}
}

func NewWalker(fetcher Fetcher, tel telemetry.API, opts ...WalkerOption) *Walker {
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	w := &Walker{
		fetcher: fetcher,
		tel:     telemetry.NewScopedAPI("hrtalk_walker", tel),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Walker) fetchDocument(ctx context.Context, pageUrl string) (*goquery.Document, error) {
	// a cancelled walk must not start another fetch
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := w.fetcher.Fetch(ctx, pageUrl)
	if err != nil {
		w.tel.ReportBroken(report_walker_fetch_page, err, pageUrl)
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		w.tel.ReportBroken(report_walker_parse_page, err, pageUrl)
		return nil, fmt.Errorf("parse %s: %w", pageUrl, err)
	}
	pagesFetched.Add(ctx, 1)
	return doc, nil
}

// emitPage yields the posts of one page in document order, it returns false
// when the walk has to stop, either because the consumer stopped or because
// an error was yielded.
func (w *Walker) emitPage(
	ctx context.Context,
	doc *goquery.Document,
	pageUrl, topicUrl string,
	yield func(Post, error) bool,
) bool {
	containers := PostContainers(doc)
	for i := range containers.Nodes {
		post, err := ExtractPost(containers.Eq(i), pageUrl, topicUrl, i)
		if err != nil && w.skipMalformed {
			w.tel.ReportWarning(report_walker_skip_post, err, pageUrl)
			postsSkipped.Add(ctx, 1)
			continue
		}
		if err != nil {
			w.tel.ReportBroken(report_walker_extract, err, pageUrl)
			yield(Post{}, err)
			return false
		}

		postsExtracted.Add(ctx, 1)
		if !yield(post, nil) {
			return false
		}
	}
	return true
}

// Walk returns the posts of every page of the topic at topicUrl, ordered by page
// then by document order. topicUrl may point at any page of the topic.
//
// The sequence is lazy, pages are fetched as the consumer ranges over it and
// breaking out of the loop stops the walk before the next fetch. A fetch, parse
// or extraction failure is yielded once as the error of the final element, posts
// yielded before it stay valid. Ranging over the sequence again walks the topic again.
func (w *Walker) Walk(ctx context.Context, topicUrl string) iter.Seq2[Post, error] {
	return func(yield func(Post, error) bool) {
		canonicalUrl := Canonicalize(topicUrl)

		ctx, span := tracer.Start(ctx, "walker:Walk", trace.WithAttributes(
			attribute.String("topic_url", canonicalUrl),
		))
		defer span.End()

		fail := func(err error) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			yield(Post{}, err)
		}

		first, err := w.fetchDocument(ctx, canonicalUrl)
		if err != nil {
			fail(err)
			return
		}
		if !w.emitPage(ctx, first, canonicalUrl, canonicalUrl, yield) {
			return
		}

		// page 1 is reused for the page count so that a topic of n pages
		// costs exactly n fetches
		total, err := w.pageCount(first, canonicalUrl)
		if err != nil {
			fail(err)
			return
		}
		span.SetAttributes(attribute.Int("page_count", total))

		for page := 2; page <= total; page++ {
			pageUrl := PageURL(canonicalUrl, page)
			span.AddEvent("page", trace.WithAttributes(
				attribute.Int("page", page),
				attribute.String("url", pageUrl),
			))

			doc, err := w.fetchDocument(ctx, pageUrl)
			if err != nil {
				fail(err)
				return
			}
			if !w.emitPage(ctx, doc, pageUrl, canonicalUrl, yield) {
				return
			}
		}

		w.tel.ReportDebug(report_walker_walk_finish, canonicalUrl, total)
	}
}

// WalkAll collects Walk into a slice. On error the posts collected before it
// are returned alongside the error.
func (w *Walker) WalkAll(ctx context.Context, topicUrl string) ([]Post, error) {
	var posts []Post
	for post, err := range w.Walk(ctx, topicUrl) {
		if err != nil {
			return posts, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Pages returns the url of every page of the topic at topicUrl in page order.
func (w *Walker) Pages(ctx context.Context, topicUrl string) ([]string, error) {
	canonicalUrl := Canonicalize(topicUrl)
	total, err := w.PageCount(ctx, canonicalUrl)
	if err != nil {
		return nil, err
	}
	pages := make([]string, total)
	for i := range pages {
		pages[i] = PageURL(canonicalUrl, i+1)
	}
	return pages, nil
}
