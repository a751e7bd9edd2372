package hrtalk

import (
	"fmt"
	"regexp"
	"strings"
)

// PageStep is the offset between consecutive page suffixes in the forum's url
// scheme: page n (n >= 2) is addressed as `-<(n-1)*PageStep>.html`. It does not
// depend on how many posts a page actually renders.
const PageStep = 10

var pageSuffixRegex = regexp.MustCompile(`(-t\d+)-\d+\.html$`)

// splitUrl separates the part of a url that carries the path from its
// query string and fragment.
func splitUrl(rawUrl string) (head, tail string) {
	if i := strings.IndexAny(rawUrl, "?#"); i >= 0 {
		return rawUrl[:i], rawUrl[i:]
	}
	return rawUrl, ""
}

// Canonicalize strips the page suffix of a topic url, returning the address of
// page 1. ex. `.../slug-t19567-10.html` -> `.../slug-t19567.html`
//
// Urls that do not have the `-t<digits>-<digits>.html` shape are returned unchanged.
func Canonicalize(topicUrl string) string {
	head, tail := splitUrl(topicUrl)
	return pageSuffixRegex.ReplaceAllString(head, "${1}.html") + tail
}

// PageURL returns the url of page `pageNumber` of the topic at canonicalUrl,
// page numbers less than or equal to 1 return canonicalUrl itself.
func PageURL(canonicalUrl string, pageNumber int) string {
	if pageNumber <= 1 {
		return canonicalUrl
	}
	head, tail := splitUrl(canonicalUrl)
	head = strings.TrimSuffix(head, ".html")
	return fmt.Sprintf("%s-%d.html%s", head, (pageNumber-1)*PageStep, tail)
}
