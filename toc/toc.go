// Package toc loads the per-edition table of contents that the archive's
// retrieval tooling saves for each newspaper issue.
package toc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Errors returned while loading an edition.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrMalformedDate  = errors.New("path must be in /path/to/file/CCYY-MM-DD.json format")
)

// Record is a raw section record as saved by the retrieval tooling. Page
// tokens are usually strings (they come from a data-pageNo attribute) but
// plain JSON numbers are accepted too.
type Record struct {
	Section string `json:"section"`
	Pages   []any  `json:"pages"`
}

// Entry is one named section of an edition and the printed pages it spans, in
// the order the source listed them.
type Entry struct {
	Section string `json:"section"`
	Pages   []int  `json:"pages"`
}

// Edition is the ordered table of contents of one dated issue. The order of
// Entries is significant.
type Edition struct {
	Date    time.Time `json:"date"`
	Entries []Entry   `json:"entries"`
}

// Year returns the edition's four-digit year as text.
func (e *Edition) Year() string {
	return fmt.Sprintf("%04d", e.Date.Year())
}

// PageError describes a page token that is not a non-negative integer.
type PageError struct {
	Section string
	Token   any
}

// Error implements error.
func (e *PageError) Error() string {
	return fmt.Sprintf("%s: section %q: page %q is not a non-negative integer",
		ErrMalformedInput, e.Section, fmt.Sprint(e.Token))
}

// Unwrap lets errors.Is match ErrMalformedInput.
func (e *PageError) Unwrap() error {
	return ErrMalformedInput
}

// Load converts raw records into an Edition. A single bad page token fails
// the whole load; no partial edition is returned.
func Load(date time.Time, records []Record) (*Edition, error) {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		pages := make([]int, 0, len(rec.Pages))
		for _, token := range rec.Pages {
			page, ok := parsePage(token)
			if !ok {
				return nil, &PageError{Section: rec.Section, Token: token}
			}
			pages = append(pages, page)
		}

		entries = append(entries, Entry{
			Section: rec.Section,
			Pages:   pages,
		})
	}

	return &Edition{
		Date:    date,
		Entries: entries,
	}, nil
}

// parsePage accepts decimal strings (surrounding whitespace allowed) and
// integral JSON numbers.
func parsePage(token any) (int, bool) {
	switch v := token.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	case float64:
		if v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case int:
		return v, v >= 0
	case int64:
		return int(v), v >= 0
	default:
		return 0, false
	}
}
