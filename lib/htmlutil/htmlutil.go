package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText returns the concatenated text nodes under node, with all markup
// stripped. Whitespace is kept exactly as it appears in the document.
func GetText(node *html.Node) string {
	var out strings.Builder
	getTextRecursive(node, &out)
	return out.String()
}

func getTextRecursive(node *html.Node, out *strings.Builder) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		out.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, out)
	}
}

// SelectionText is GetText over the first node of a selection, an empty
// selection yields an empty string.
func SelectionText(sel *goquery.Selection) string {
	if sel == nil || len(sel.Nodes) == 0 {
		return ""
	}
	return GetText(sel.Nodes[0])
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// Normalize collapses runs of whitespace into a single space, drops
// non-printable runes and trims the result. Meant for console display only.
func Normalize(text string) string {
	text = removeNonPrintable(text)
	text = innerWhitespace.ReplaceAllString(text, " ")
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)
	return strings.Trim(text, " ")
}

// Truncate shortens text to at most max runes, marking the cut with "...".
func Truncate(text string, max int) string {
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
