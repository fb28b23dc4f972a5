// Package report renders a classified edition in the archive's fixed line
// format.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/pevans/papertoc/classify"
)

// Renamer maps a stored supplement name to the name printed in reports.
type Renamer interface {
	DisplayName(name string) string
}

// Formatter renders classification results. It holds no per-report state.
type Formatter struct {
	renamer Renamer
}

// New creates a formatter that prints supplements under renamer's display
// names.
func New(renamer Renamer) *Formatter {
	return &Formatter{renamer: renamer}
}

// Pad renders a page number zero-padded to three digits.
func Pad(page int) string {
	return fmt.Sprintf("%03d", page)
}

// Ordinal renders n with its English ordinal suffix (1st, 2nd, 11th, 23rd).
func Ordinal(n int) string {
	if mod := n % 100; mod >= 11 && mod <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// FormatDate renders the DATE header, e.g. "Saturday 9th March 2024".
func FormatDate(date time.Time) string {
	return fmt.Sprintf("%s %s %s", date.Weekday(), Ordinal(date.Day()), date.Format("January 2006"))
}

// Lines renders the report as lines in their fixed order: DATE, MAIN,
// PUZZLES (if any), SUPPLEMENT lines, then WARNING lines.
func (f *Formatter) Lines(result *classify.Result, date time.Time) []string {
	lines := []string{"DATE " + FormatDate(date)}

	sections := make([]string, 0, len(result.MainSections))
	for _, s := range result.MainSections {
		sections = append(sections, fmt.Sprintf("%s(%d)", s.Name, s.Pages))
	}
	main := result.Main()
	lines = append(lines, fmt.Sprintf("MAIN %s %s (%s)",
		Pad(main.First), Pad(main.Last), strings.Join(sections, ", ")))

	if puzzles, ok := result.Puzzles(); ok {
		lines = append(lines, fmt.Sprintf("PUZZLES %s %s", Pad(puzzles.First), Pad(puzzles.Last)))
	}

	for _, s := range result.Supplements.All() {
		r, ok := s.Range()
		if !ok {
			// Already reported as a warning
			continue
		}
		lines = append(lines, fmt.Sprintf("SUPPLEMENT \"%s\" %s %s",
			f.displayName(s.Name), Pad(r.First), Pad(r.Last)))
	}

	for _, w := range result.Warnings {
		lines = append(lines, "WARNING "+w)
	}

	return lines
}

// Write writes the report lines to w.
func (f *Formatter) Write(w io.Writer, result *classify.Result, date time.Time) error {
	for _, line := range f.Lines(result, date) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

// WriteError writes the single ERROR line used for fatal conditions.
func WriteError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "ERROR %s\n", err)
	return werr
}

func (f *Formatter) displayName(name string) string {
	if f.renamer == nil {
		return name
	}
	return f.renamer.DisplayName(name)
}

// sortedPages returns a sorted copy of pages.
func sortedPages(pages []int) []int {
	out := slices.Clone(pages)
	slices.Sort(out)
	return out
}
