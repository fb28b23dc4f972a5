// Package classify sorts an edition's table of contents into the main body,
// the puzzles range and the supplements, validating section names as it
// goes.
package classify

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/pevans/papertoc/toc"
	"github.com/pevans/papertoc/vocabulary"
)

// Fatal classification errors. No partial result accompanies them.
var (
	ErrMissingStartMarker = errors.New("no start marker found")
	ErrMissingEndMarker   = errors.New("no end marker found")
	ErrEmptyMain          = errors.New("main edition has no pages")
)

// Advisory message prefixes.
const (
	unknownInsideMain  = "Unknown section detected inside MAIN: "
	unknownOutsideMain = "Unknown section outside MAIN: "
	emptySupplement    = "Supplement has no pages: "
)

type state int

const (
	beforeFront state = iota
	inMain
	afterMain
)

func (s state) String() string {
	switch s {
	case beforeFront:
		return "before front"
	case inMain:
		return "in main"
	case afterMain:
		return "after main"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Classifier classifies editions against a vocabulary. It keeps no state
// between calls and may be used from several goroutines at once.
type Classifier struct {
	vocab  *vocabulary.Vocabulary
	logger *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a classifier. A nil vocabulary selects the built-in one.
func New(vocab *vocabulary.Vocabulary, opts ...Option) *Classifier {
	if vocab == nil {
		vocab = vocabulary.Default()
	}
	c := &Classifier{
		vocab:  vocab,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Vocabulary returns the vocabulary the classifier checks names against.
func (c *Classifier) Vocabulary() *vocabulary.Vocabulary {
	return c.vocab
}

// run holds the accumulators for a single Classify call.
type run struct {
	vocab  *vocabulary.Vocabulary
	logger *zap.Logger
	year   string
	state  state

	mainPages    []int
	mainMax      int
	sectionIndex map[string]int
	result       *Result
}

// Classify walks the edition's entries once, in order. Entries before the
// first start marker are supplements; entries from the start marker through
// the first end marker form the main body; later entries are supplements
// unless they continue the main body's pagination without a gap.
func (c *Classifier) Classify(edition *toc.Edition) (*Result, error) {
	r := &run{
		vocab:        c.vocab,
		logger:       c.logger.With(zap.String("edition", edition.Date.Format("2006-01-02"))),
		year:         edition.Year(),
		state:        beforeFront,
		sectionIndex: make(map[string]int),
		result: &Result{
			MainSections: []SectionCount{},
			Supplements:  NewSupplements(),
			Warnings:     []string{},
		},
	}

	for _, entry := range edition.Entries {
		r.step(entry)
	}

	return r.finish()
}

func (r *run) step(entry toc.Entry) {
	switch r.state {
	case beforeFront:
		if !r.vocab.IsStart(entry.Section) {
			r.addSupplement(entry, false)
			return
		}
		r.transition(inMain, entry.Section)
		r.stepMain(entry)
	case inMain:
		r.stepMain(entry)
	case afterMain:
		if r.extendsMain(entry) {
			r.logger.Debug("section continues main pagination",
				zap.String("section", entry.Section),
				zap.Int("from", slices.Min(entry.Pages)))
			r.accumulate(entry)
			return
		}
		r.addSupplement(entry, true)
	}
}

func (r *run) stepMain(entry toc.Entry) {
	r.accumulate(entry)

	if r.vocab.IsPuzzle(entry.Section) {
		r.result.PuzzlePages = slices.Clone(entry.Pages)
		if r.result.PuzzlePages == nil {
			r.result.PuzzlePages = []int{}
		}
	}

	if !r.vocab.IsMain(entry.Section) {
		r.warn(unknownInsideMain+entry.Section, entry.Section, r.vocab.SuggestMain)
	}

	if r.vocab.IsEnd(entry.Section) {
		r.transition(afterMain, entry.Section)
	}
}

// accumulate adds the entry's pages to the main body and its page count to
// the section list.
func (r *run) accumulate(entry toc.Entry) {
	for _, page := range entry.Pages {
		if len(r.mainPages) == 0 || page > r.mainMax {
			r.mainMax = page
		}
		r.mainPages = append(r.mainPages, page)
	}

	if i, ok := r.sectionIndex[entry.Section]; ok {
		r.result.MainSections[i].Pages += len(entry.Pages)
		return
	}
	r.sectionIndex[entry.Section] = len(r.result.MainSections)
	r.result.MainSections = append(r.result.MainSections, SectionCount{
		Name:  entry.Section,
		Pages: len(entry.Pages),
	})
}

// extendsMain reports whether an entry after the end marker picks up the main
// body's pagination with no gap.
func (r *run) extendsMain(entry toc.Entry) bool {
	if !r.vocab.IsExtension(entry.Section) || len(entry.Pages) == 0 || len(r.mainPages) == 0 {
		return false
	}
	return slices.Min(entry.Pages) == r.mainMax+1
}

func (r *run) addSupplement(entry toc.Entry, trailing bool) {
	if r.result.Supplements.Set(entry.Section, entry.Pages) {
		r.logger.Warn("supplement name repeated, earlier pages replaced",
			zap.String("section", entry.Section),
			zap.Ints("pages", entry.Pages))
	}

	if trailing && !r.vocab.IsExpectedSupplement(entry.Section, r.year) {
		r.warn(unknownOutsideMain+entry.Section, entry.Section, r.vocab.SuggestSupplement)
	}

	if len(entry.Pages) == 0 {
		r.result.Warnings = append(r.result.Warnings, emptySupplement+entry.Section)
	}
}

// warn records an advisory and logs a suggested known name when one is close.
func (r *run) warn(message, section string, suggest func(string) (string, bool)) {
	r.result.Warnings = append(r.result.Warnings, message)

	fields := []zap.Field{zap.String("section", section)}
	if known, ok := suggest(section); ok {
		fields = append(fields, zap.String("did_you_mean", known))
	}
	r.logger.Info(message, fields...)
}

func (r *run) transition(next state, section string) {
	r.logger.Debug("classifier transition",
		zap.Stringer("from", r.state),
		zap.Stringer("to", next),
		zap.String("section", section))
	r.state = next
}

func (r *run) finish() (*Result, error) {
	switch r.state {
	case beforeFront:
		return nil, fmt.Errorf("%w: expected one of %s",
			ErrMissingStartMarker, strings.Join(r.vocab.Lists().StartMarkers, ", "))
	case inMain:
		return nil, fmt.Errorf("%w: expected one of %s",
			ErrMissingEndMarker, strings.Join(r.vocab.Lists().EndMarkers, ", "))
	}

	pages := slices.Clone(r.mainPages)
	slices.Sort(pages)
	pages = slices.Compact(pages)
	if len(pages) == 0 {
		return nil, ErrEmptyMain
	}
	r.result.MainPages = pages

	return r.result, nil
}
