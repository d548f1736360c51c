// Package watcher observes the configuration source files and reports
// when any of them change. A change notification is a signal to rebuild
// the whole configuration snapshot; the watcher never carries the new
// content itself.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/appstage/internal/logging"
)

// Sentinel errors.
var (
	ErrClosed          = errors.New("watcher closed")
	ErrAlreadyWatching = errors.New("already watching path")
)

// DefaultDebounce coalesces the write bursts editors produce when
// saving a file.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a fixed set of files through fsnotify. Because
// editors commonly replace files by rename, the watcher registers the
// parent directories and filters events down to the tracked files.
type Watcher struct {
	mu sync.Mutex

	fsw *fsnotify.Watcher
	log *logging.Logger

	// Tracked files and their registered parent directories.
	files map[string]bool
	dirs  map[string]bool

	// Per-file debounce timers.
	debounce time.Duration
	pending  map[string]*time.Timer

	changes chan string
	errs    chan error
	fired   chan string

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window for change events.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the observability sink.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New creates a watcher. Call AddFile for each source file, then
// consume Changes until Close.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		log:      logging.Null,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
		changes:  make(chan string, 16),
		errs:     make(chan error, 16),
		fired:    make(chan string, 16),
		closeCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// AddFile tracks a file. The file itself need not exist yet; its
// parent directory must.
func (w *Watcher) AddFile(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.files[abs] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}

	w.files[abs] = true
	w.log.Debug("watcher", "tracking %s", abs)
	return nil
}

// Changes returns the channel of changed file paths. One value is
// emitted per tracked file per debounce window.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Errors returns the channel of watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Watching returns the tracked file paths.
func (w *Watcher) Watching() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	return paths
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, timer := range w.pending {
		timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()

	close(w.changes)
	close(w.errs)
	return w.fsw.Close()
}

// processLoop filters raw fsnotify events down to the tracked files.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			tracked := w.files[abs]
			w.mu.Unlock()
			if tracked {
				w.scheduleChange(abs)
			}

		case path := <-w.fired:
			w.mu.Lock()
			delete(w.pending, path)
			w.mu.Unlock()
			select {
			case w.changes <- path:
			default:
				w.log.Warning("watcher", "dropping change notification for %s", path)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
				w.log.Warning("watcher", "dropping watch error: %v", err)
			}
		}
	}
}

// scheduleChange arms (or re-arms) the debounce timer for a path.
func (w *Watcher) scheduleChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		// Forward through the process loop so shutdown stays ordered:
		// by the time the channels close the loop has already exited.
		select {
		case w.fired <- path:
		case <-w.closeCh:
		}
	})
}
