package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startWatcher runs w in the background and returns a stop func that waits for Run to return.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give fsnotify time to register the directory.
	time.Sleep(50 * time.Millisecond)

	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop")
			return nil
		}
	}
}

func TestWatcher_RunsOnChange(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "user.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"id": 1}`), 0o644))

	var calls atomic.Int32
	w := New(input, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	w.Debounce = 20 * time.Millisecond
	stop := startWatcher(t, w)

	require.NoError(t, os.WriteFile(input, []byte(`{"id": 2}`), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, stop())
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "user.json")
	require.NoError(t, os.WriteFile(input, []byte(`{}`), 0o644))

	var calls atomic.Int32
	w := New(input, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	w.Debounce = 200 * time.Millisecond
	stop := startWatcher(t, w)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(input, []byte(fmt.Sprintf(`{"n": %d}`, i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.NoError(t, stop())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "user.json")
	require.NoError(t, os.WriteFile(input, []byte(`{}`), 0o644))

	var calls atomic.Int32
	w := New(input, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	w.Debounce = 20 * time.Millisecond
	stop := startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, int32(0), calls.Load())
	assert.NoError(t, stop())
}

func TestWatcher_KeepsRunningAfterFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "user.json")
	require.NoError(t, os.WriteFile(input, []byte(`{}`), 0o644))

	var calls atomic.Int32
	w := New(input, func(ctx context.Context) error {
		calls.Add(1)
		return fmt.Errorf("bad input")
	})
	w.Debounce = 20 * time.Millisecond
	stop := startWatcher(t, w)

	require.NoError(t, os.WriteFile(input, []byte(`{`), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	before := calls.Load()
	require.NoError(t, os.WriteFile(input, []byte(`{"ok": true}`), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() > before }, 2*time.Second, 10*time.Millisecond)

	assert.NoError(t, stop())
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "user.json"), func(ctx context.Context) error {
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch input directory")
}
