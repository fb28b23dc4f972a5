package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pevans/papertoc/report"
	"github.com/pevans/papertoc/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Summarize editions as their contents files are saved",
		Long: `Watches a contents directory (and its year sub-directories) and prints a
report for each CCYY-MM-DD.json file as it is written. Runs until interrupted.
With no argument the configured contents directory is watched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			dir := a.settings.ContentsDir
			if len(args) == 1 {
				dir = args[0]
			}

			out := cmd.OutOrStdout()
			processor := a.processor()
			handler := func(path string) {
				outcome := processor.Process(path)
				err := writeOutcome(a, out, outcome, format, true)
				if err != nil && !errors.Is(err, errConversionFailed) {
					a.logger.Error("failed to report edition", zap.String("path", path), zap.Error(err))
				}
			}

			w, err := watch.New(dir, handler, watch.WithLogger(a.logger))
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "output format: text, json or table")

	return cmd
}
