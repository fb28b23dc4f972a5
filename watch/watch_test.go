package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder collects handled paths
type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// Test helper: start a watcher and stop it when the test ends
func startWatcher(t *testing.T, dir string, rec *recorder, debounce time.Duration) {
	w, err := New(dir, rec.handle, WithDebounce(debounce))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	// Give the watcher a moment to register its directories
	time.Sleep(100 * time.Millisecond)
}

// TestNew_NotADirectory verifies the watched path is checked up front
func TestNew_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := New(file, func(string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")

	_, err = New(filepath.Join(t.TempDir(), "missing"), func(string) {})
	require.Error(t, err)
}

// TestRun_HandlesNewContentsFile verifies saved files reach the handler
func TestRun_HandlesNewContentsFile(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, rec, 50*time.Millisecond)

	path := filepath.Join(dir, "2024-03-09.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{path}, rec.snapshot())
}

// TestRun_IgnoresOtherFiles verifies unrelated names are skipped
func TestRun_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, rec, 50*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("[]"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-03-09.txt"), []byte("[]"), 0o600))

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

// TestRun_Debounces verifies rapid writes produce one call
func TestRun_Debounces(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, rec, 300*time.Millisecond)

	path := filepath.Join(dir, "2024-03-09.json")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) >= 1
	}, 3*time.Second, 20*time.Millisecond)
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, []string{path}, rec.snapshot())
}

// TestRun_WatchesNewYearDirectory verifies sub-directories are picked up
func TestRun_WatchesNewYearDirectory(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, rec, 50*time.Millisecond)

	yearDir := filepath.Join(dir, "2025")
	require.NoError(t, os.Mkdir(yearDir, 0o700))
	time.Sleep(200 * time.Millisecond)

	path := filepath.Join(yearDir, "2025-01-01.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{path}, rec.snapshot())
}

// TestRun_ExistingYearDirectory verifies directories present at start are watched
func TestRun_ExistingYearDirectory(t *testing.T) {
	dir := t.TempDir()
	yearDir := filepath.Join(dir, "2024")
	require.NoError(t, os.Mkdir(yearDir, 0o700))

	rec := &recorder{}
	startWatcher(t, dir, rec, 50*time.Millisecond)

	path := filepath.Join(yearDir, "2024-12-24.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 3*time.Second, 20*time.Millisecond)
}

// TestNew_HoldsNoResources verifies a watcher that never runs leaves nothing
// behind
func TestNew_HoldsNoResources(t *testing.T) {
	w, err := New(t.TempDir(), func(string) {})
	require.NoError(t, err)
	assert.Nil(t, w.watcher)
	goleak.VerifyNone(t)
}

// TestRun_OnlyOnce verifies a second Run is refused instead of panicking
func TestRun_OnlyOnce(t *testing.T) {
	w, err := New(t.TempDir(), func(string) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	assert.ErrorIs(t, w.Run(context.Background()), ErrAlreadyStarted)
}
