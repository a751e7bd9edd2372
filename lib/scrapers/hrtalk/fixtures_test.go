package hrtalk

import (
	"context"
	"fmt"
	"strings"
	"sync"

	_ "embed"
)

//go:embed testdata/topic_page.html
var topicPageHtml string

type testPost struct {
	id       int
	author   string
	coloured bool
	datetime string
	content  string
}

func (p testPost) permalink() string {
	return fmt.Sprintf("https://hyperreal.info/talk/viewtopic.php?p=%d#p%d", p.id, p.id)
}

func (p testPost) authorUrl() string {
	return fmt.Sprintf("https://hyperreal.info/talk/memberlist.php?mode=viewprofile&u=%s", p.author)
}

// renderPage renders a topic page the way the forum does, total <= 0 leaves the
// pager out.
func renderPage(current, total int, posts []testPost) string {
	var out strings.Builder
	out.WriteString("<html><body>\n")
	if total > 0 {
		fmt.Fprintf(&out, `<span class="fw-normal">Strona <strong>%d</strong> z <strong>%d</strong></span>`+"\n", current, total)
	}
	for _, p := range posts {
		class := "username"
		if p.coloured {
			class = "username-coloured"
		}
		datetime := p.datetime
		if datetime == "" {
			datetime = "2023-05-01T14:30:00+02:00"
		}
		fmt.Fprintf(
			&out,
			`<div class="timeline-post position-relative clearfix">
	<a class="%s" href="%s">%s</a>
	<a class="post-title" href="%s">post %d</a>
	<time datetime="%s"></time>
	<div class="content pb-2">%s</div>
</div>
`,
			class, strings.ReplaceAll(p.authorUrl(), "&", "&amp;"), p.author,
			p.permalink(), p.id,
			datetime,
			p.content,
		)
	}
	out.WriteString("</body></html>\n")
	return out.String()
}

// fakeFetcher serves documents from memory and records every url it was asked for.
type fakeFetcher struct {
	mutex  sync.Mutex
	pages  map[string]string
	errors map[string]error
	calls  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:  map[string]string{},
		errors: map[string]error{},
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls = append(f.calls, url)
	if err, ok := f.errors[url]; ok {
		return nil, err
	}
	page, ok := f.pages[url]
	if !ok {
		return nil, &TransportError{Url: url, StatusCode: 404}
	}
	return []byte(page), nil
}

func (f *fakeFetcher) Calls() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.calls...)
}
