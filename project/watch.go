package project

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changed source files by path on Events. It never touches a
// Document; the receiver calls Document.Reload on its own goroutine.
type Watcher struct {
	watcher  *fsnotify.Watcher
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
	debounce time.Duration
	match    func(string) bool
}

// NewWatcher watches dirs and reports files for which match returns true.
func NewWatcher(debounce time.Duration, match func(string) bool, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher := &Watcher{
		watcher:  w,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		debounce: debounce,
		match:    match,
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	// Each file gets a timer that restarts on every event, so a burst of
	// writes is reported once, after the last one.
	timers := make(map[string]*time.Timer)
	fired := make(chan string)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if !w.match(name) {
				continue
			}
			if t, ok := timers[name]; ok {
				t.Reset(w.debounce)
				continue
			}
			timers[name] = time.AfterFunc(w.debounce, func() {
				select {
				case fired <- name:
				case <-w.closeCh:
				}
			})
		case name := <-fired:
			delete(timers, name)
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// SourcePaths returns the cleaned paths of every CHR file and the collision
// sheet.
func (d *Document) SourcePaths() []string {
	var paths []string
	for _, f := range d.chrs {
		if f.Path != "" {
			paths = append(paths, filepath.Clean(f.Path))
		}
	}
	if d.CollisionPath != "" {
		paths = append(paths, filepath.Clean(d.CollisionPath))
	}
	return paths
}

// Watch starts a watcher over the directories of the document's sources.
// The set of sources is fixed when Watch is called.
func (d *Document) Watch(debounce time.Duration) (*Watcher, error) {
	paths := d.SourcePaths()
	var dirs []string
	for _, p := range paths {
		if dir := filepath.Dir(p); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return NewWatcher(debounce, func(name string) bool { return slices.Contains(paths, name) }, dirs...)
}

// Reload rereads whichever source lives at path. It reports whether path
// belonged to the document.
func (d *Document) Reload(path string) (bool, error) {
	path = filepath.Clean(path)
	found := false
	var err error
	for _, f := range d.chrs {
		if filepath.Clean(f.Path) != path {
			continue
		}
		found = true
		if lerr := f.Load(d.quantize); lerr != nil {
			err = lerr
		}
	}
	if d.CollisionPath != "" && filepath.Clean(d.CollisionPath) == path {
		found = true
		if lerr := d.LoadCollision(d.CollisionPath); lerr != nil {
			err = lerr
		}
	}
	if found {
		d.cache.clear()
		d.log.WithFields(logrus.Fields{"path": path, "ok": err == nil}).Info("source reloaded")
	}
	return found, err
}
