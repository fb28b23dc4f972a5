// Package batch converts many saved contents files at once.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pevans/papertoc/classify"
	"github.com/pevans/papertoc/toc"
)

// Outcome is the result of converting one contents file. Err is set when the
// file could not be loaded or classified; the other files in the batch are
// unaffected.
type Outcome struct {
	Path    string
	Edition *toc.Edition
	Result  *classify.Result
	Err     error
}

// Failed reports whether the file hit a fatal condition.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Config controls a Processor.
type Config struct {
	Concurrency int           // Maximum files in flight; values below 1 mean 1
	Selectors   toc.Selectors // Layout of HTML snapshots; empty fields use the defaults
}

// Processor loads and classifies contents files.
type Processor struct {
	classifier  *classify.Classifier
	concurrency int
	selectors   toc.Selectors
	logger      *zap.Logger
}

// NewProcessor creates a processor. A nil logger disables logging.
func NewProcessor(classifier *classify.Classifier, config *Config, logger *zap.Logger) *Processor {
	concurrency := 1
	selectors := toc.DefaultSelectors()
	if config != nil {
		if config.Concurrency > 1 {
			concurrency = config.Concurrency
		}
		selectors = config.Selectors
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		classifier:  classifier,
		concurrency: concurrency,
		selectors:   selectors,
		logger:      logger,
	}
}

// Process loads and classifies a single file.
func (p *Processor) Process(path string) Outcome {
	logger := p.logger.With(zap.String("run_id", uuid.NewString()), zap.String("path", path))
	outcome := Outcome{Path: path}

	edition, err := toc.ReadFileWith(path, p.selectors)
	if err != nil {
		logger.Debug("failed to load contents", zap.Error(err))
		outcome.Err = err
		return outcome
	}
	outcome.Edition = edition

	result, err := p.classifier.Classify(edition)
	if err != nil {
		logger.Debug("failed to classify edition", zap.Error(err))
		outcome.Err = err
		return outcome
	}
	outcome.Result = result

	logger.Debug("classified edition",
		zap.Int("sections", len(edition.Entries)),
		zap.Int("supplements", result.Supplements.Len()),
		zap.Int("warnings", len(result.Warnings)))

	return outcome
}

// Run converts paths with bounded concurrency and returns outcomes in the
// same order as paths. Per-file failures are reported in the outcomes; a
// non-nil error means the context was cancelled before the batch finished.
func (p *Processor) Run(ctx context.Context, paths []string) ([]Outcome, error) {
	outcomes := make([]Outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.Process(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	return outcomes, nil
}

// Discover finds contents files under dir, either directly or in year
// sub-directories (<dir>/<CCYY>/<CCYY-MM-DD>.json). Results are sorted by
// file name, which orders them by edition date.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if toc.IsContentsFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read contents directory: %w", err)
	}

	slices.SortFunc(paths, func(a, b string) int {
		if c := strings.Compare(filepath.Base(a), filepath.Base(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	return paths, nil
}

// Expand turns a mix of files and directories into a list of contents files.
// Files are kept as given; directories are searched with Discover.
func Expand(args []string, isDir func(string) bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !isDir(arg) {
			paths = append(paths, arg)
			continue
		}
		found, err := Discover(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
