package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pevans/papertoc/batch"
	"github.com/pevans/papertoc/report"
)

var formats = []string{report.FormatText, report.FormatJSON, report.FormatTable}

func newConvertCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "convert <CCYY-MM-DD.json>",
		Short: "Summarize one edition's table of contents",
		Long: `Reads one contents file and prints its summary:

  DATE Saturday 9th March 2024
  MAIN 001 004 (Front Cover(1), News(2), Sport Cover(1))
  SUPPLEMENT "Travel" 005 006
  WARNING Unknown section outside MAIN: Travel

If the edition cannot be summarized, a single ERROR line is printed and the
command exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return convert(a, cmd.OutOrStdout(), args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "output format: text, json or table")

	return cmd
}

func checkFormat(format string) error {
	if !slices.Contains(formats, format) {
		return fmt.Errorf("unknown output format: %s (expected one of %v)", format, formats)
	}
	return nil
}

// convert prints the report for path, or a single ERROR line.
func convert(a *app, w io.Writer, path, format string) error {
	outcome := a.processor().Process(path)
	return writeOutcome(a, w, outcome, format, false)
}

// writeOutcome renders one outcome. With labelled set the report is preceded
// by a "# <path>" line and errors carry the path.
func writeOutcome(a *app, w io.Writer, outcome batch.Outcome, format string, labelled bool) error {
	if outcome.Failed() {
		err := outcome.Err
		if labelled {
			err = fmt.Errorf("%s: %w", outcome.Path, err)
		}
		if werr := report.WriteError(w, err); werr != nil {
			return fmt.Errorf("failed to write report: %w", werr)
		}
		return errConversionFailed
	}

	if labelled {
		if _, err := fmt.Fprintf(w, "# %s\n", outcome.Path); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if err := a.formatter().Render(w, format, outcome.Result, outcome.Edition.Date); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
