package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the resolved config file and re-parses it on write,
// invoking the onChange callback passed to Watch with the reloaded value.
// Debounced like the
// retrieved policy config watcher this is grounded on, since editors
// commonly emit several write events for one save.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching Path()'s directory (fsnotify can't watch a
// not-yet-existing file directly, so the parent directory is watched and
// events are filtered to the target name) and calls onChange with every
// successfully reloaded Config after a 200ms debounce window. A reload
// that fails to parse is logged nowhere and simply skipped; the caller
// keeps running with its last-known-good Config.
func Watch(onChange func(Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(Path())
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	target := filepath.Base(Path())
	w := &Watcher{fsw: fsw, done: make(chan struct{})}

	go func() {
		defer close(w.done)

		var timer *time.Timer
		fire := func() {
			if cfg, err := Load(); err == nil {
				onChange(cfg)
			}
		}

		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					return
				}
				if filepath.Base(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(200*time.Millisecond, fire)
			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return w, nil
}

// Close stops the watch goroutine and releases the underlying fsnotify
// watcher.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
