package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the bursts of events editors produce on save.
const debounce = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path string
	w    *fsnotify.Watcher
}

// NewWatcher starts watching path. The parent directory is watched so
// that editors which replace the file on save are handled.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{path: filepath.Clean(path), w: w}, nil
}

// Run calls onChange with the freshly loaded config (or the load error)
// after each change until ctx is done. It closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, onChange func(Config, error)) error {
	defer w.w.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange(Load(w.path))
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			onChange(Config{}, err)
		}
	}
}
