package classify

import "slices"

// Range is an inclusive pair of printed page numbers.
type Range struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// SectionCount is the number of pages a named section contributed to the
// main body.
type SectionCount struct {
	Name  string `json:"name"`
	Pages int    `json:"pages"`
}

// Result is the classification of one edition.
type Result struct {
	// MainPages is the sorted, de-duplicated union of main body pages.
	MainPages []int

	// MainSections lists main body sections in first-occurrence order.
	MainSections []SectionCount

	// PuzzlePages is the verbatim page list of the last puzzle section seen
	// inside the main body, or nil if there was none.
	PuzzlePages []int

	Supplements *Supplements
	Warnings    []string
}

// Main returns the inclusive range covered by the main body.
func (r *Result) Main() Range {
	if len(r.MainPages) == 0 {
		return Range{}
	}
	return Range{First: r.MainPages[0], Last: r.MainPages[len(r.MainPages)-1]}
}

// Puzzles returns the first and last puzzle pages as the source listed them.
// They are deliberately not sorted.
func (r *Result) Puzzles() (Range, bool) {
	if len(r.PuzzlePages) == 0 {
		return Range{}, false
	}
	return Range{First: r.PuzzlePages[0], Last: r.PuzzlePages[len(r.PuzzlePages)-1]}, true
}

// Supplement is a named insert and its pages.
type Supplement struct {
	Name  string `json:"name"`
	Pages []int  `json:"pages"`
}

// Range returns the sorted extent of the supplement's pages.
func (s Supplement) Range() (Range, bool) {
	if len(s.Pages) == 0 {
		return Range{}, false
	}
	return Range{First: slices.Min(s.Pages), Last: slices.Max(s.Pages)}, true
}

// Supplements is an insertion-ordered map of supplement name to pages.
// Storing a name that is already present replaces its pages but keeps its
// original position.
//
// TODO: confirm with the archive owners whether repeated supplement names
// should merge their pages instead of replacing them.
type Supplements struct {
	order []string
	pages map[string][]int
}

// NewSupplements returns an empty ordered supplement map.
func NewSupplements() *Supplements {
	return &Supplements{pages: make(map[string][]int)}
}

// Set stores pages under name and reports whether an earlier entry was
// replaced.
func (s *Supplements) Set(name string, pages []int) bool {
	_, replaced := s.pages[name]
	if !replaced {
		s.order = append(s.order, name)
	}
	s.pages[name] = slices.Clone(pages)
	return replaced
}

// Get returns the pages stored under name.
func (s *Supplements) Get(name string) ([]int, bool) {
	pages, ok := s.pages[name]
	return pages, ok
}

// Len returns the number of distinct supplement names.
func (s *Supplements) Len() int {
	return len(s.order)
}

// All returns the supplements in first-insertion order.
func (s *Supplements) All() []Supplement {
	out := make([]Supplement, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Supplement{Name: name, Pages: s.pages[name]})
	}
	return out
}
