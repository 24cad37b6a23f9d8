package library

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch implements ports.Watchable. The returned channel is signaled once the
// library root and its book directories stop changing for the debounce period.
// It is closed when ctx is done.
func (l *Library) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(l.root); err != nil {
		w.Close()
		return nil, err
	}
	l.watchChildren(w)

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer w.Close()

		timer := time.NewTimer(l.debounce)
		timer.Stop()

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) && filepath.Dir(ev.Name) == filepath.Clean(l.root) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						_ = w.Add(ev.Name)
					}
				}
				timer.Reset(l.debounce)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn("library watcher error", "root", l.root, "err", err)
			case <-timer.C:
				select {
				case changes <- struct{}{}:
				default:
				}
			}
		}
	}()
	return changes, nil
}

// watchChildren adds the book directories; fsnotify is not recursive.
func (l *Library) watchChildren(w *fsnotify.Watcher) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if err := w.Add(filepath.Join(l.root, entry.Name())); err != nil {
				l.logger.Debug("cannot watch book directory", "dir", entry.Name(), "err", err)
			}
		}
	}
}
