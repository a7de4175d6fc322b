package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReportsSettledWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	other := filepath.Join(dir, "other.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- File(ctx, path, 50*time.Millisecond, nil, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte("v 1 1 1\n"), 0o644))
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
	// Bursts settle into one notification.
	select {
	case <-changed:
		t.Fatal("burst reported more than once")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestFileMissingDirectory(t *testing.T) {
	err := File(context.Background(), filepath.Join(t.TempDir(), "gone", "model.obj"), time.Millisecond, nil, func() {})
	assert.Error(t, err)
}
