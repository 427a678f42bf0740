package watcher

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a single file for writes and invokes a callback
// after a debounce window. Editors replace files with rename/create
// sequences, so the watch is placed on the parent directory and events
// are filtered to the target name.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	done     chan struct{}
}

// WatchFile starts watching path and calls onChange (debounced) whenever
// the file is written, created, or renamed into place.
func WatchFile(path string, debounce *Debouncer, onChange func()) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	if debounce == nil {
		debounce = NewDebouncer(0)
	}

	w := &FileWatcher{
		path:     abs,
		watcher:  fsw,
		debounce: debounce,
		done:     make(chan struct{}),
	}
	go w.loop(onChange)
	return w, nil
}

func (w *FileWatcher) loop(onChange func()) {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounce.Trigger(onChange)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the file simply stops being
			// live-reloaded until the next restart.
		}
	}
}

// Close stops the watcher and cancels any pending callback.
func (w *FileWatcher) Close() error {
	close(w.done)
	w.debounce.Cancel()
	return w.watcher.Close()
}
