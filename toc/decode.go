package toc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/titanous/json5"
)

// rawRecord distinguishes absent or null fields from empty ones.
type rawRecord struct {
	Section *string `json:"section"`
	Pages   *[]any  `json:"pages"`
}

// DecodeJSON decodes a saved contents file: a JSON array of
// {"section": ..., "pages": [...]} objects. JSON5 syntax (comments, trailing
// commas) is tolerated so hand-corrected files still load. Every record must
// carry both fields.
func DecodeJSON(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read contents: %w", err)
	}

	var raw []*rawRecord
	if err := json5.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse contents JSON: %v", ErrMalformedInput, err)
	}

	records := make([]Record, 0, len(raw))
	for i, rec := range raw {
		switch {
		case rec == nil:
			return nil, fmt.Errorf("%w: record %d is null", ErrMalformedInput, i)
		case rec.Section == nil:
			return nil, fmt.Errorf("%w: record %d has no section", ErrMalformedInput, i)
		case rec.Pages == nil || *rec.Pages == nil:
			return nil, fmt.Errorf("%w: section %q has no pages list", ErrMalformedInput, *rec.Section)
		}
		records = append(records, Record{Section: *rec.Section, Pages: *rec.Pages})
	}

	return records, nil
}

// ParseHTML decodes a saved snapshot of the viewer's thumbnail panel using
// DefaultSelectors.
func ParseHTML(r io.Reader) ([]Record, error) {
	return ParseHTMLWith(r, DefaultSelectors())
}

// ParseHTMLWith decodes a viewer snapshot. Each sel.Group element holds a
// sel.Title and one sel.Page element per page. Empty selectors fall back to
// the defaults.
func ParseHTMLWith(r io.Reader, sel Selectors) ([]Record, error) {
	sel = sel.WithDefaults()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	records := []Record{}
	doc.Find(sel.Group).Each(func(i int, group *goquery.Selection) {
		rec := Record{
			Section: strings.TrimSpace(group.Find(sel.Title).First().Text()),
			Pages:   []any{},
		}

		group.Find(sel.Page).Each(func(j int, page *goquery.Selection) {
			if v, ok := page.Attr(sel.PageAttr); ok {
				rec.Pages = append(rec.Pages, v)
			}
		})

		records = append(records, rec)
	})

	return records, nil
}

// ReadFile loads an edition from a saved contents file. The date comes from
// the file name and the decoder from its extension.
func ReadFile(path string) (*Edition, error) {
	return ReadFileWith(path, DefaultSelectors())
}

// ReadFileWith is ReadFile with explicit selectors for HTML snapshots.
func ReadFileWith(path string, sel Selectors) (*Edition, error) {
	date, err := ParseDate(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open contents file: %w", err)
	}
	defer f.Close()

	var records []Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		records, err = ParseHTMLWith(f, sel)
	default:
		records, err = DecodeJSON(f)
	}
	if err != nil {
		return nil, err
	}

	return Load(date, records)
}
