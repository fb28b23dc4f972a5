package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pevans/papertoc/vocabulary"
)

func newVocabCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "Show the section vocabulary in effect",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			writeVocabulary(cmd.OutOrStdout(), a.vocab.Lists())
		},
	}
}

func writeVocabulary(w io.Writer, lists vocabulary.Lists) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"List", "Count", "Sections"})

	add := func(name string, sections []string) {
		t.AppendRow(table.Row{name, len(sections), strings.Join(sections, "\n")})
		t.AppendSeparator()
	}
	add("start markers", lists.StartMarkers)
	add("end markers", lists.EndMarkers)
	add("puzzles", lists.PuzzleSections)
	add("extensions", lists.ExtensionSections)
	add("main", lists.MainSections)
	add("supplements", lists.Supplements)
	add("supplement patterns", quote(lists.SupplementPatterns))

	renames := make([]string, 0, len(lists.Renames))
	for from, to := range lists.Renames {
		renames = append(renames, fmt.Sprintf("%s -> %s", from, to))
	}
	slices.Sort(renames)
	t.AppendRow(table.Row{"renames", len(renames), strings.Join(renames, "\n")})

	t.Render()
}

// quote shows leading spaces in patterns.
func quote(values []string) []string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return quoted
}
