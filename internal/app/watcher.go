package app

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"cvd-simulator/internal/cvd"
)

// TableWatcher watches a calibration table file and reloads the matrix
// store when the file changes, so edits to a custom table show up without
// restarting. A reload that fails keeps the previous table in place.
type TableWatcher struct {
	path     string
	state    *State
	watcher  *fsnotify.Watcher
	debounce time.Duration
	stopCh   chan struct{}
}

// NewTableWatcher begins watching path in a background goroutine. The
// watch covers the parent directory because editors typically replace
// files by rename.
func NewTableWatcher(state *State, path string, debounce time.Duration) (*TableWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	tw := &TableWatcher{
		path:     path,
		state:    state,
		watcher:  watcher,
		debounce: debounce,
		stopCh:   make(chan struct{}),
	}
	go tw.watchLoop()
	return tw, nil
}

// Stop stops the watcher goroutine.
func (w *TableWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

// watchLoop coalesces change bursts with a debounce timer before
// reloading.
func (w *TableWatcher) watchLoop() {
	// Armed only while a change burst is pending.
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-w.stopCh:
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
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("table watch: %v", err)
		case <-timer.C:
			w.reload()
		}
	}
}

// reload loads the changed table into a fresh store and swaps it in. The
// swap keeps the two-state store lifecycle intact: each store only ever
// goes unloaded to loaded.
func (w *TableWatcher) reload() {
	store := cvd.NewStore()
	if err := store.Load(w.path); err != nil {
		log.Printf("table reload failed, keeping previous table: %v", err)
		return
	}
	w.state.ReplaceStore(store)
	log.Printf("reloaded matrix table from %s", w.path)
}
