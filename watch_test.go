package pathway

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

const watchedCatalog = `waypoints:
  - title: One
    position: [0, 0, 0]
    accent: "#ff0000"
  - title: Two
    position: [0, 5, -10]
    accent: "#00ff00"
`

const grownCatalog = watchedCatalog + `  - title: Three
    position: [3, 10, -20]
    accent: "#0000ff"
`

func TestCatalogWatcherRelevant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "course.yaml")
	cw, err := NewCatalogWatcher(path, func(*Catalog) {}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cw.watcher.Close() })

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"sibling", fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cw.relevant(tt.ev))
		})
	}
}

func TestCatalogWatcherMissingDir(t *testing.T) {
	_, err := NewCatalogWatcher(filepath.Join(t.TempDir(), "missing", "course.yaml"), func(*Catalog) {}, nil)
	assert.Error(t, err)
}

func TestCatalogWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "course.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watchedCatalog), 0o644))

	changes := make(chan *Catalog, 16)
	cw, err := NewCatalogWatcher(path, func(c *Catalog) { changes <- c }, nil)
	require.NoError(t, err)
	cw.Debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cw.Run(ctx) }()

	// An invalid edit is rejected without reaching the callback.
	require.NoError(t, os.WriteFile(path, []byte("waypoints: [}"), 0o644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(grownCatalog), 0o644))

	var got *Catalog
	require.Eventually(t, func() bool {
		select {
		case c := <-changes:
			got = c
		default:
		}
		return got != nil && got.Len() == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"One", "Two", "Three"}, got.Titles())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
