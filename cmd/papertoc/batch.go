package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pevans/papertoc/batch"
	"github.com/pevans/papertoc/report"
)

func newBatchCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "batch [file or directory...]",
		Short: "Summarize many editions",
		Long: `Summarizes every contents file given, searching directories for
CCYY-MM-DD.json files (including year sub-directories). With no arguments the
configured contents directory is used.

Each report is preceded by a "# <path>" line. Editions that cannot be
summarized print "ERROR <path>: <message>" and the command exits non-zero
once the whole batch has been reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{a.settings.ContentsDir}
			}

			paths, err := batch.Expand(args, isDir)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				a.logger.Warn("no contents files found", zap.Strings("args", args))
				return nil
			}

			outcomes, err := a.processor().Run(cmd.Context(), paths)
			if err != nil {
				return err
			}

			failed := 0
			for _, outcome := range outcomes {
				err := writeOutcome(a, cmd.OutOrStdout(), outcome, format, true)
				if errors.Is(err, errConversionFailed) {
					failed++
					continue
				}
				if err != nil {
					return err
				}
			}

			a.logger.Info("batch complete",
				zap.Int("editions", len(outcomes)),
				zap.Int("failed", failed))
			if failed > 0 {
				return fmt.Errorf("%d of %d editions failed: %w", failed, len(outcomes), errConversionFailed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "output format: text, json or table")

	return cmd
}
