package hrtalk

import (
	"fmt"
	"time"

	"hrtalk-scraper/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Post is a single post of a topic.
type Post struct {
	// Url is the permalink of the post.
	Url string `json:"url"`
	// AuthorUrl is the profile link of the author.
	AuthorUrl string `json:"author_url"`
	// Content is the text of the post body with markup stripped.
	Content string `json:"content"`
	// PublishedAt is the publish time as rendered by the forum. The timezone offset
	// is discarded without conversion, the value is stored in time.UTC but should be
	// read as a naive local timestamp.
	PublishedAt time.Time `json:"published_at"`
	// TopicUrl is the canonical url of the topic, identical for every page.
	TopicUrl string `json:"topic_url"`
}

const (
	// class selectors with spaces match the full class attribute exactly, the
	// forum renders these with a fixed class string.
	postSelector    = `div[class="timeline-post position-relative clearfix"]`
	contentSelector = `div[class="content pb-2"]`

	permalinkSelector      = "a.post-title"
	authorColoredSelector  = "a.username-coloured"
	authorSelector         = "a.username"
	publishedAtSelector    = "time"
	publishedAtAttr        = "datetime"
	publishedAtLayout      = "2006-01-02T15:04:05"
	publishedAtOffsetChars = 6
)

// authorSelectors is the fallback chain for the author link, earlier selectors
// win over later ones.
var authorSelectors = []string{authorColoredSelector, authorSelector}

// ParsePublishedAt parses a machine readable datetime like
// `2023-05-01T14:30:00+02:00`, the trailing 6 characters (the offset) are
// dropped and not applied.
func ParsePublishedAt(datetime string) (time.Time, error) {
	if len(datetime) < publishedAtOffsetChars {
		return time.Time{}, fmt.Errorf("datetime %q is shorter than its timezone offset", datetime)
	}
	naive := datetime[:len(datetime)-publishedAtOffsetChars]
	t, err := time.Parse(publishedAtLayout, naive)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", datetime, err)
	}
	// time.Parse accepts fractional seconds the layout does not name
	if t.Format(publishedAtLayout) != naive {
		return time.Time{}, fmt.Errorf("datetime %q does not match %s", datetime, publishedAtLayout)
	}
	return t, nil
}

func authorUrl(sel *goquery.Selection) (string, bool) {
	for _, selector := range authorSelectors {
		link := sel.Find(selector).First()
		if link.Length() == 0 {
			continue
		}
		return link.Attr("href")
	}
	return "", false
}

// ExtractPost reads one post container. `index` is the position of the container
// on the page, it is only used to locate errors.
func ExtractPost(sel *goquery.Selection, pageUrl, topicUrl string, index int) (Post, error) {
	structural := func(field, reason string) error {
		return &StructuralError{Url: pageUrl, Index: index, Field: field, Reason: reason}
	}

	permalink, ok := sel.Find(permalinkSelector).First().Attr("href")
	if !ok {
		return Post{}, structural("url", fmt.Sprintf("missing %s href", permalinkSelector))
	}

	author, ok := authorUrl(sel)
	if !ok {
		return Post{}, structural(
			"author_url",
			fmt.Sprintf("missing %s and %s href", authorColoredSelector, authorSelector),
		)
	}

	datetime, ok := sel.Find(publishedAtSelector).First().Attr(publishedAtAttr)
	if !ok {
		return Post{}, structural("published_at", fmt.Sprintf("missing %s[%s]", publishedAtSelector, publishedAtAttr))
	}
	publishedAt, err := ParsePublishedAt(datetime)
	if err != nil {
		return Post{}, structural("published_at", err.Error())
	}

	return Post{
		Url:         permalink,
		AuthorUrl:   author,
		Content:     htmlutil.SelectionText(sel.Find(contentSelector).First()),
		PublishedAt: publishedAt,
		TopicUrl:    topicUrl,
	}, nil
}

// PostContainers returns every post container of a page in document order.
func PostContainers(doc *goquery.Document) *goquery.Selection {
	return doc.Find(postSelector)
}

// ExtractPosts returns every post on a page in document order, `topicUrl` is
// the canonical topic url the records are tagged with. The first malformed post
// aborts extraction.
func ExtractPosts(doc *goquery.Document, pageUrl, topicUrl string) ([]Post, error) {
	containers := PostContainers(doc)
	posts := make([]Post, 0, containers.Length())
	for i := range containers.Nodes {
		post, err := ExtractPost(containers.Eq(i), pageUrl, topicUrl, i)
		if err != nil {
			return posts, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}
