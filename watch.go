package pathway

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// CatalogWatcher reloads a catalog file whenever it changes on disk and
// hands valid results to a callback. The parent directory is watched so
// editors that replace the file by rename are still seen.
type CatalogWatcher struct {
	path     string
	onChange func(*Catalog)
	logger   *slog.Logger
	// Debounce collapses bursts of writes into one reload.
	Debounce time.Duration

	watcher *fsnotify.Watcher
}

// NewCatalogWatcher starts watching path. onChange runs on the goroutine
// calling Run.
func NewCatalogWatcher(path string, onChange func(*Catalog), logger *slog.Logger) (*CatalogWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &CatalogWatcher{
		path:     abs,
		onChange: onChange,
		logger:   logger,
		Debounce: 100 * time.Millisecond,
		watcher:  w,
	}, nil
}

// relevant reports whether ev touches the watched file.
func (cw *CatalogWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != cw.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Run processes file events until ctx is done, then closes the watcher.
func (cw *CatalogWatcher) Run(ctx context.Context) error {
	defer cw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if !cw.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cw.Debounce)
			} else {
				timer.Reset(cw.Debounce)
			}
			fire = timer.C
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			cw.logger.Warn("catalog watch", slog.Any("error", err))
		case <-fire:
			fire = nil
			cw.reload()
		}
	}
}

func (cw *CatalogWatcher) reload() {
	cat, err := LoadCatalog(cw.path)
	if err != nil {
		cw.logger.Error("catalog reload rejected", slog.String("path", cw.path), slog.Any("error", err))
		return
	}
	cw.logger.Info("catalog changed", slog.String("path", cw.path), slog.Int("waypoints", cat.Len()))
	cw.onChange(cat)
}
