package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pevans/papertoc/classify"
	"github.com/pevans/papertoc/toc"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const goodContents = `[
  {"section": "Front Cover", "pages": ["1"]},
  {"section": "News", "pages": ["2", "3"]},
  {"section": "Sport Cover", "pages": ["4"]}
]`

const noFrontContents = `[{"section": "News", "pages": ["1"]}]`

// Test helper: write a file, creating parent directories
func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// Test helper: create a processor with the default vocabulary
func newTestProcessor(concurrency int) *Processor {
	return NewProcessor(classify.New(nil), &Config{Concurrency: concurrency}, nil)
}

// TestDiscover_YearLayout verifies year sub-directories are searched
func TestDiscover_YearLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "2024", "2024-03-09.json"), goodContents)
	writeFile(t, filepath.Join(dir, "2023", "2023-12-31.json"), goodContents)
	writeFile(t, filepath.Join(dir, "2024", "2024-01-02.html"), "")
	writeFile(t, filepath.Join(dir, "2024", "notes.txt"), "")
	writeFile(t, filepath.Join(dir, ".trash", "2024-01-01.json"), goodContents)

	paths, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2023", "2023-12-31.json"),
		filepath.Join(dir, "2024", "2024-01-02.html"),
		filepath.Join(dir, "2024", "2024-03-09.json"),
	}, paths)
}

// TestDiscover_MissingDir verifies an unreadable root is an error
func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read contents directory")
}

// TestExpand verifies files pass through and directories are searched
func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "2024-03-09.json"), goodContents)

	isDir := func(p string) bool { return p == dir }
	paths, err := Expand([]string{"/x/2024-01-01.json", dir}, isDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"/x/2024-01-01.json", filepath.Join(dir, "2024-03-09.json")}, paths)
}

// TestProcess_Success verifies a good file classifies
func TestProcess_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2024-03-09.json")
	writeFile(t, path, goodContents)

	outcome := newTestProcessor(1).Process(path)
	require.NoError(t, outcome.Err)
	assert.False(t, outcome.Failed())
	require.NotNil(t, outcome.Result)
	assert.Equal(t, classify.Range{First: 1, Last: 4}, outcome.Result.Main())
	assert.Equal(t, 2024, outcome.Edition.Date.Year())
}

// TestProcess_Failures verifies load and classify errors are reported
func TestProcess_Failures(t *testing.T) {
	dir := t.TempDir()
	badDate := filepath.Join(dir, "contents.json")
	writeFile(t, badDate, goodContents)
	noFront := filepath.Join(dir, "2024-03-09.json")
	writeFile(t, noFront, noFrontContents)

	p := newTestProcessor(1)

	outcome := p.Process(badDate)
	assert.True(t, outcome.Failed())
	assert.ErrorIs(t, outcome.Err, toc.ErrMalformedDate)
	assert.Nil(t, outcome.Edition)

	outcome = p.Process(noFront)
	assert.True(t, outcome.Failed())
	assert.ErrorIs(t, outcome.Err, classify.ErrMissingStartMarker)
	assert.NotNil(t, outcome.Edition, "edition loaded before classification failed")
	assert.Nil(t, outcome.Result)
}

// TestProcess_SnapshotSelectors verifies HTML snapshots use the configured
// selectors
func TestProcess_SnapshotSelectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2024-03-09.html")
	writeFile(t, path, `<li class="entry"><b>Front Cover</b><i data-page="1"></i></li>
<li class="entry"><b>Sport Cover</b><i data-page="2"></i></li>`)

	p := NewProcessor(classify.New(nil), &Config{
		Concurrency: 1,
		Selectors:   toc.Selectors{Group: ".entry", Title: "b", Page: "[data-page]", PageAttr: "data-page"},
	}, nil)

	outcome := p.Process(path)
	require.NoError(t, outcome.Err)
	assert.Equal(t, classify.Range{First: 1, Last: 2}, outcome.Result.Main())
}

// TestRun_OrderedOutcomes verifies outcomes keep input order and failures
// do not stop siblings
func TestRun_OrderedOutcomes(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for day := 1; day <= 12; day++ {
		path := filepath.Join(dir, fmt.Sprintf("2024-03-%02d.json", day))
		content := goodContents
		if day%4 == 0 {
			content = noFrontContents
		}
		writeFile(t, path, content)
		paths = append(paths, path)
	}

	outcomes, err := newTestProcessor(3).Run(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, outcomes, len(paths))

	for i, outcome := range outcomes {
		assert.Equal(t, paths[i], outcome.Path)
		if (i+1)%4 == 0 {
			assert.ErrorIs(t, outcome.Err, classify.ErrMissingStartMarker, outcome.Path)
		} else {
			assert.NoError(t, outcome.Err, outcome.Path)
			assert.Equal(t, i+1, outcome.Edition.Date.Day())
		}
	}
}

// TestRun_Empty verifies an empty batch succeeds
func TestRun_Empty(t *testing.T) {
	outcomes, err := newTestProcessor(2).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

// TestRun_Cancelled verifies a cancelled context aborts the batch
func TestRun_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2024-03-09.json")
	writeFile(t, path, goodContents)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := newTestProcessor(2).Run(ctx, []string{path, path})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, outcomes)
}

// TestNewProcessor_Concurrency verifies the limit floor
func TestNewProcessor_Concurrency(t *testing.T) {
	assert.Equal(t, 1, NewProcessor(classify.New(nil), nil, nil).concurrency)
	assert.Equal(t, 1, NewProcessor(classify.New(nil), &Config{Concurrency: -3}, nil).concurrency)
	assert.Equal(t, 6, NewProcessor(classify.New(nil), &Config{Concurrency: 6}, nil).concurrency)
}
