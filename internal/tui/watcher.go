package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"garden/internal/logfields"
)

const watchDebounce = 250 * time.Millisecond

// storeWatcher reports changes to a data file made by other processes.
// It watches the containing directory so atomic renames are seen.
type storeWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
}

func newStoreWatcher(path string, logger *slog.Logger) (*storeWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &storeWatcher{path: abs, watcher: w, logger: logger, debounce: watchDebounce}, nil
}

// relevant reports whether an event touches the data file. SQLite journal and
// WAL files count as the database changing.
func (sw *storeWatcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(sw.path)
	name := filepath.Base(ev.Name)
	if name == base {
		return true
	}
	return strings.HasPrefix(name, base+"-") && !strings.HasSuffix(name, ".lock")
}

// Run calls onChange, debounced, until ctx is done or the watcher is closed.
func (sw *storeWatcher) Run(ctx context.Context, onChange func()) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.relevant(ev) {
				continue
			}
			sw.logger.Debug("data file changed", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(sw.debounce, onChange)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (sw *storeWatcher) Close() error {
	return sw.watcher.Close()
}
