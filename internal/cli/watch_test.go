package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchLoop_RegeneratesOnBlurbChanges(t *testing.T) {
	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	require.NoError(t, watcher.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, watcher, func() { calls <- struct{}{} })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jane.yaml"), []byte("author: Jane Doe\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jane.yaml"), []byte("author: Jane Doe\n---\n"), 0o644))

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("regenerate was not called")
	}

	// Both writes fall inside one debounce window.
	select {
	case <-calls:
		t.Fatal("regenerate called twice for one burst of writes")
	case <-time.After(2 * watchDebounce):
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	require.NoError(t, watcher.Close())
}
