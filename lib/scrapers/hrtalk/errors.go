package hrtalk

import (
	"errors"
	"fmt"
)

// ErrStructural is matched (errors.Is) by every *StructuralError.
var ErrStructural = errors.New("structural parse error")

// ErrPaginationIndicatorMissing means the page has no pager, which is how
// single page topics render. PageCountFromDocument resolves it to 1 page.
var ErrPaginationIndicatorMissing = errors.New("pagination indicator missing")

// TransportError is returned when a page could not be fetched, either because
// the request itself failed or because the server answered with a non-2xx status.
type TransportError struct {
	Url string
	// StatusCode is 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.Url, e.Err.Error())
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Url, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StructuralError is returned when an element or attribute the page schema
// requires is absent or malformed.
type StructuralError struct {
	// Url is the page the element was expected on.
	Url string
	// Index is the position of the post container on the page, -1 for
	// page level elements like the pager.
	Index  int
	Field  string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s: %s: %s", ErrStructural.Error(), e.Url, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: post %d: %s: %s", ErrStructural.Error(), e.Url, e.Index, e.Field, e.Reason)
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}
