package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pevans/papertoc/batch"
	"github.com/pevans/papertoc/classify"
	"github.com/pevans/papertoc/config"
	"github.com/pevans/papertoc/report"
	"github.com/pevans/papertoc/vocabulary"
)

// errConversionFailed is returned after an ERROR line has been printed, so
// main exits non-zero without printing anything else.
var errConversionFailed = errors.New("conversion failed")

// app holds the state shared by every subcommand once the root command has
// resolved configuration.
type app struct {
	cfgFile   string
	vocabFile string
	verbose   bool

	settings config.Settings
	logger   *zap.Logger
	vocab    *vocabulary.Vocabulary
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "papertoc",
		Short: "Summarize newspaper tables of contents",
		Long: `papertoc reads a saved table of contents for one newspaper edition and
reports where the main paper, the puzzles and each supplement sit.

Contents files are named after the edition date (CCYY-MM-DD.json) and hold
an ordered list of {"section", "pages"} records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(
		&a.cfgFile, "config", "", "config file (default: ~/.papertoc/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&a.vocabFile, "vocabulary", "", "vocabulary override file (YAML)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&a.verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(
		newConvertCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newVocabCmd(a),
	)

	return rootCmd
}

// init loads configuration, then builds the logger and vocabulary from it.
func (a *app) init() error {
	var (
		cfg *config.FileConfig
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.LoadConfigFileFrom(a.cfgFile)
	} else {
		cfg, err = config.LoadConfigFile()
	}
	if err != nil {
		return err
	}
	a.settings = config.Resolve(cfg)

	if a.logger, err = newLogger(a.settings.LogLevel, a.verbose); err != nil {
		return err
	}

	vocabFile := a.settings.VocabularyFile
	if a.vocabFile != "" {
		vocabFile = a.vocabFile
	}
	if vocabFile == "" {
		a.vocab = vocabulary.Default()
		return nil
	}
	if a.vocab, err = vocabulary.LoadFile(vocabFile); err != nil {
		return err
	}
	a.logger.Debug("loaded vocabulary override", zap.String("file", vocabFile))

	return nil
}

// newLogger builds a console logger on stderr so reports on stdout stay
// clean.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	cfg.Level = atomic
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func (a *app) classifier() *classify.Classifier {
	return classify.New(a.vocab, classify.WithLogger(a.logger))
}

func (a *app) processor() *batch.Processor {
	return batch.NewProcessor(a.classifier(), &batch.Config{
		Concurrency: a.settings.Concurrency,
		Selectors:   a.settings.Selectors,
	}, a.logger)
}

func (a *app) formatter() *report.Formatter {
	return report.New(a.vocab)
}

// isDir reports whether path names an existing directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
