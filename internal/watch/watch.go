// Package watch reports changes to patch files under a set of directories.
package watch

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher emits the path of every changed file once its writes settle.
type Watcher struct {
	Changes <-chan string

	changes  chan string
	done     chan struct{}
	fw       *fsnotify.Watcher
	filter   func(string) bool
	debounce time.Duration
}

// New watches dirs. Only names accepted by filter are reported; a nil filter
// accepts everything.
func New(dirs []string, filter func(string) bool, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ch := make(chan string, 16)
	w := &Watcher{
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		fw:       fw,
		filter:   filter,
		debounce: debounce,
	}
	go w.loop()
	return w, nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.fw.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				for file := range pending {
					w.emit(file)
				}
				return
			}
			if !w.filter(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}
		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) >= w.debounce {
					w.emit(file)
					delete(pending, file)
				}
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// watch errors are not fatal
		}
	}
}

func (w *Watcher) emit(file string) {
	select {
	case w.changes <- file:
	default:
		// a reload is already queued
	}
}
