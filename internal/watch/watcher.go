// Package watch re-runs a verify pass whenever one of the watched
// files changes: the rc inputs, the assert specs, or the whitelist.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDefault is the default quiet window after the last event
// before the handler fires. Editors emit several events per save.
const debounceDefault = 300 * time.Millisecond

// Watcher observes a fixed set of files and invokes the handler once
// per burst of changes to any of them.
type Watcher struct {
	paths    map[string]bool // absolute paths of watched files
	dirs     []string        // parent directories, deduplicated
	handler  func()
	debounce time.Duration
}

// New creates a watcher over the given files. Parent directories are
// watched instead of the files themselves because editors commonly
// replace files by rename, which drops a direct file watch.
func New(files []string, handler func()) (*Watcher, error) {
	w := &Watcher{
		paths:    make(map[string]bool, len(files)),
		handler:  handler,
		debounce: debounceDefault,
	}
	dirSeen := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		w.paths[abs] = true
		dir := filepath.Dir(abs)
		if !dirSeen[dir] {
			dirSeen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// tracks reports whether an event path refers to a watched file.
func (w *Watcher) tracks(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return w.paths[abs]
}

// relevant reports whether an event kind can change file content.
func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Run watches until ctx is cancelled. The handler runs on the watch
// goroutine: one re-run at a time, bursts collapsed by a single
// debounce timer.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	// Single debounce timer, reset on each event. Initialized as
	// stopped; the first relevant event starts it.
	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounceTimer.C:
			if pending {
				pending = false
				w.handler()
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) || !w.tracks(event.Name) {
				continue
			}
			pending = true
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_ = err
		}
	}
}
