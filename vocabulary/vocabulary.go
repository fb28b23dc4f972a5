// Package vocabulary holds the curated section names the archive expects to
// see in an edition's table of contents.
package vocabulary

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/antzucaro/matchr"
	"gopkg.in/yaml.v3"
)

// Lists is the serializable form of a vocabulary, as read from an override
// file.
type Lists struct {
	StartMarkers       []string          `yaml:"start_markers"`
	EndMarkers         []string          `yaml:"end_markers"`
	PuzzleSections     []string          `yaml:"puzzle_sections"`
	ExtensionSections  []string          `yaml:"extension_sections"`
	MainSections       []string          `yaml:"main_sections"`
	Supplements        []string          `yaml:"supplements"`
	SupplementPatterns []string          `yaml:"supplement_patterns"`
	Renames            map[string]string `yaml:"renames"`
}

// DefaultLists returns the built-in vocabulary.
func DefaultLists() Lists {
	return Lists{
		StartMarkers:      []string{"Front Cover", "Front Page"},
		EndMarkers:        []string{"Back Cover", "Back Page", "Sport Cover"},
		PuzzleSections:    []string{"Puzzles", "puzzles"},
		ExtensionSections: []string{"Business", "Money"},
		MainSections: []string{
			"News",
			"News Review",
			"World",
			"Opinion",
			"Business",
			"Arts",
			"Good Food",
			"Television",
			"Community Voice",
			"Weather",
			"Sport",
			"Tributes",
			"Tributes & Celebrations",
			"Trading Room",
			"Extra",
			"Money",
			"Obituaries",
			"Life",
			"Classifieds",
			"Sunday Superquiz",
			"Advertising Feature",
			"Racing",
			"Notices",
			"Letters",
			"Summer in Sydney",
			"Sunday Scene",
			"Sydney Scene",
		},
		Supplements: []string{
			"The Guide",
			"The Form",
			"Spectrum",
			"Traveller",
			"Sydney Inside Out",
			"Melbourne Inside Out",
			"Domayne",
			"Harvey Norman",
			"Harvey Norman Furniture",
			"Harvey Norman Computers",
			"Good Weekend",
			"Sunday Life",
			"Domain",
			"Drive",
			"International Women's Day",
			"Where to Vote",
			"Good Food",
			"Australian Made",
			"HSC Study Guide",
			"Sunday Traveller",
			"Trading Room",
			"My Career",
		},
		SupplementPatterns: []string{" Wrap", " Liftout", "Feature", " Guide"},
		Renames: map[string]string{
			"Melbourne Inside Out": "Sydney Inside Out",
		},
	}
}

// Vocabulary answers membership questions about section names. It is
// immutable once built and may be shared between goroutines.
type Vocabulary struct {
	lists      Lists
	start      map[string]bool
	end        map[string]bool
	puzzle     map[string]bool
	extension  map[string]bool
	main       map[string]bool
	supplement map[string]bool
	heuristics []Heuristic
}

// New builds a Vocabulary from lists. The known main sections always include
// the start, end and puzzle names.
func New(lists Lists) *Vocabulary {
	v := &Vocabulary{
		lists:      lists,
		start:      toSet(lists.StartMarkers),
		end:        toSet(lists.EndMarkers),
		puzzle:     toSet(lists.PuzzleSections),
		extension:  toSet(lists.ExtensionSections),
		main:       toSet(lists.MainSections, lists.StartMarkers, lists.EndMarkers, lists.PuzzleSections),
		supplement: toSet(lists.Supplements),
		heuristics: []Heuristic{ContainsYear()},
	}
	for _, pattern := range lists.SupplementPatterns {
		v.heuristics = append(v.heuristics, Contains(pattern))
	}
	return v
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	return New(DefaultLists())
}

// LoadFile reads a YAML override file and merges it onto the defaults. Lists
// in the file are appended to the built-in ones; renames override by key.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var override Lists
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	lists := DefaultLists()
	if err := mergo.Merge(&lists, override, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
		return nil, fmt.Errorf("failed to merge vocabulary: %w", err)
	}

	return New(lists), nil
}

// IsStart reports whether name opens the main edition.
func (v *Vocabulary) IsStart(name string) bool { return v.start[name] }

// IsEnd reports whether name closes the main edition.
func (v *Vocabulary) IsEnd(name string) bool { return v.end[name] }

// IsPuzzle reports whether name is the puzzles section.
func (v *Vocabulary) IsPuzzle(name string) bool { return v.puzzle[name] }

// IsExtension reports whether name may continue the main edition after the
// end marker.
func (v *Vocabulary) IsExtension(name string) bool { return v.extension[name] }

// IsMain reports whether name is a known main-edition section, markers and
// puzzles included.
func (v *Vocabulary) IsMain(name string) bool { return v.main[name] }

// IsExpectedSupplement reports whether a trailing section is a known
// supplement or matches one of the naming heuristics for the given year.
func (v *Vocabulary) IsExpectedSupplement(name, year string) bool {
	if v.supplement[name] {
		return true
	}
	_, ok := v.MatchHeuristic(name, year)
	return ok
}

// MatchHeuristic returns the first heuristic that accepts name.
func (v *Vocabulary) MatchHeuristic(name, year string) (Heuristic, bool) {
	for _, h := range v.heuristics {
		if h.Match(name, year) {
			return h, true
		}
	}
	return Heuristic{}, false
}

// Heuristics returns the supplement naming heuristics in evaluation order.
func (v *Vocabulary) Heuristics() []Heuristic {
	return slices.Clone(v.heuristics)
}

// DisplayName applies the render-time rename for a supplement, if any.
func (v *Vocabulary) DisplayName(name string) string {
	if renamed, ok := v.lists.Renames[name]; ok {
		return renamed
	}
	return name
}

// Lists returns a copy of the lists the vocabulary was built from.
func (v *Vocabulary) Lists() Lists {
	out := Lists{
		StartMarkers:       slices.Clone(v.lists.StartMarkers),
		EndMarkers:         slices.Clone(v.lists.EndMarkers),
		PuzzleSections:     slices.Clone(v.lists.PuzzleSections),
		ExtensionSections:  slices.Clone(v.lists.ExtensionSections),
		MainSections:       slices.Clone(v.lists.MainSections),
		Supplements:        slices.Clone(v.lists.Supplements),
		SupplementPatterns: slices.Clone(v.lists.SupplementPatterns),
		Renames:            make(map[string]string, len(v.lists.Renames)),
	}
	for k, val := range v.lists.Renames {
		out.Renames[k] = val
	}
	return out
}

// Suggest returns the known name closest to name by Jaro-Winkler similarity,
// provided the similarity reaches threshold.
func Suggest(name string, candidates []string, threshold float64) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score := matchr.JaroWinkler(strings.ToLower(name), strings.ToLower(candidate), false)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if best == "" || bestScore < threshold {
		return "", false
	}
	return best, true
}

// SuggestMain suggests a known main section for an unknown name.
func (v *Vocabulary) SuggestMain(name string) (string, bool) {
	return Suggest(name, v.knownMain(), 0.85)
}

// SuggestSupplement suggests a known supplement for an unknown name.
func (v *Vocabulary) SuggestSupplement(name string) (string, bool) {
	return Suggest(name, v.lists.Supplements, 0.85)
}

func (v *Vocabulary) knownMain() []string {
	names := make([]string, 0, len(v.main))
	for name := range v.main {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func toSet(lists ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, name := range list {
			set[name] = true
		}
	}
	return set
}
