package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pevans/papertoc/classify"
)

// Output formats accepted by Render.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Document is the JSON form of a report.
type Document struct {
	Date        string            `json:"date"`
	Heading     string            `json:"heading"`
	Main        MainDocument      `json:"main"`
	Puzzles     *classify.Range   `json:"puzzles,omitempty"`
	Supplements []SupplementEntry `json:"supplements"`
	Warnings    []string          `json:"warnings"`
}

// MainDocument describes the main body.
type MainDocument struct {
	First    int                     `json:"first"`
	Last     int                     `json:"last"`
	Sections []classify.SectionCount `json:"sections"`
}

// SupplementEntry describes one supplement. First and Last are omitted when
// the supplement listed no pages.
type SupplementEntry struct {
	Name  string `json:"name"`
	First *int   `json:"first,omitempty"`
	Last  *int   `json:"last,omitempty"`
	Pages []int  `json:"pages"`
}

// Document builds the JSON form of a report.
func (f *Formatter) Document(result *classify.Result, date time.Time) Document {
	main := result.Main()
	doc := Document{
		Date:    date.Format(time.DateOnly),
		Heading: FormatDate(date),
		Main: MainDocument{
			First:    main.First,
			Last:     main.Last,
			Sections: result.MainSections,
		},
		Supplements: []SupplementEntry{},
		Warnings:    result.Warnings,
	}

	if puzzles, ok := result.Puzzles(); ok {
		doc.Puzzles = &puzzles
	}

	for _, s := range result.Supplements.All() {
		entry := SupplementEntry{
			Name:  f.displayName(s.Name),
			Pages: sortedPages(s.Pages),
		}
		if r, ok := s.Range(); ok {
			entry.First, entry.Last = &r.First, &r.Last
		}
		doc.Supplements = append(doc.Supplements, entry)
	}

	return doc
}

// WriteJSON writes the report as indented JSON.
func (f *Formatter) WriteJSON(w io.Writer, result *classify.Result, date time.Time) error {
	data, err := json.MarshalIndent(f.Document(result, date), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteTable writes the report as a human-readable table.
func (f *Formatter) WriteTable(w io.Writer, result *classify.Result, date time.Time) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.SetTitle(FormatDate(date))
	t.AppendHeader(table.Row{"Group", "Name", "First", "Last", "Pages"})

	main := result.Main()
	t.AppendRow(table.Row{"MAIN", "", Pad(main.First), Pad(main.Last), len(result.MainPages)})
	for _, s := range result.MainSections {
		t.AppendRow(table.Row{"", s.Name, "", "", s.Pages})
	}

	if puzzles, ok := result.Puzzles(); ok {
		t.AppendRow(table.Row{"PUZZLES", "", Pad(puzzles.First), Pad(puzzles.Last), len(result.PuzzlePages)})
	}

	for _, s := range result.Supplements.All() {
		first, last := "-", "-"
		if r, ok := s.Range(); ok {
			first, last = Pad(r.First), Pad(r.Last)
		}
		t.AppendRow(table.Row{"SUPPLEMENT", f.displayName(s.Name), first, last, len(s.Pages)})
	}

	if len(result.Warnings) > 0 {
		t.AppendSeparator()
		for _, warning := range result.Warnings {
			t.AppendRow(table.Row{"WARNING", warning, "", "", ""})
		}
	}

	t.Render()
	return nil
}

// Render writes the report in the named format.
func (f *Formatter) Render(w io.Writer, format string, result *classify.Result, date time.Time) error {
	switch format {
	case FormatText, "":
		return f.Write(w, result, date)
	case FormatJSON:
		return f.WriteJSON(w, result, date)
	case FormatTable:
		return f.WriteTable(w, result, date)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
