package hrtalk

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// the pager renders as `Page <strong>1</strong> of <strong>3</strong>`
	pagerSelector       = "span.fw-normal"
	pagerMarkerSelector = "strong"
)

// readPageCount reads the total page count off the pager of a topic page,
// ErrPaginationIndicatorMissing is returned when there is no pager at all.
func readPageCount(doc *goquery.Document, pageUrl string) (int, error) {
	pager := doc.Find(pagerSelector).First()
	if pager.Length() == 0 {
		return 0, ErrPaginationIndicatorMissing
	}

	markers := pager.Find(pagerMarkerSelector)
	if markers.Length() < 2 {
		return 0, &StructuralError{
			Url:    pageUrl,
			Index:  -1,
			Field:  "page_count",
			Reason: fmt.Sprintf("expected 2 markers in %s, found %d", pagerSelector, markers.Length()),
		}
	}

	text := strings.TrimSpace(markers.Eq(1).Text())
	total, err := strconv.Atoi(text)
	if err != nil || total < 1 {
		return 0, &StructuralError{
			Url:    pageUrl,
			Index:  -1,
			Field:  "page_count",
			Reason: fmt.Sprintf("invalid total page marker %q", text),
		}
	}
	return total, nil
}

// PageCountFromDocument returns the number of pages of the topic page 1 belongs
// to. A page without a pager is a single page topic.
func PageCountFromDocument(doc *goquery.Document, pageUrl string) (int, error) {
	total, err := readPageCount(doc, pageUrl)
	if errors.Is(err, ErrPaginationIndicatorMissing) {
		return 1, nil
	}
	return total, err
}

// PageCount fetches the canonical (page 1) url of a topic and reads its page count.
func (w *Walker) PageCount(ctx context.Context, canonicalUrl string) (int, error) {
	doc, err := w.fetchDocument(ctx, canonicalUrl)
	if err != nil {
		return 0, err
	}
	return w.pageCount(doc, canonicalUrl)
}

func (w *Walker) pageCount(doc *goquery.Document, canonicalUrl string) (int, error) {
	total, err := readPageCount(doc, canonicalUrl)
	if errors.Is(err, ErrPaginationIndicatorMissing) {
		w.tel.ReportDebug("no pager found, assuming a single page topic", canonicalUrl)
		return 1, nil
	}
	if err != nil {
		w.tel.ReportBroken(report_walker_page_count, err, canonicalUrl)
		return 0, err
	}
	return total, nil
}
