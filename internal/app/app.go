// Package app wires the configuration and resource subsystems together
// and manages their lifecycle: boot order, startup diagnostics, reload
// on source changes, shutdown.
package app

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/appstage/internal/config"
	"github.com/dshills/appstage/internal/config/watcher"
	"github.com/dshills/appstage/internal/logging"
	"github.com/dshills/appstage/internal/resource"
	"github.com/dshills/appstage/internal/runmode"
)

// Options configures the application.
type Options struct {
	// Mode is the execution mode. Callers normally pass
	// runmode.Detect(); tests pin it explicitly.
	Mode runmode.Mode

	// Root is the project root directory. Defaults to the
	// mode-appropriate location.
	Root string

	// BasePath and OverlayPath override the configuration source
	// locations.
	BasePath    string
	OverlayPath string

	// Watch enables reload on configuration source changes.
	Watch bool

	// Logger supplies an already-configured sink, bypassing the
	// resolver's sink initialization. Used by tests.
	Logger *logging.Logger
}

// snapshot is the immutable unit a reload swaps in whole, so readers
// never observe a half-updated state.
type snapshot struct {
	resolved *config.Resolved
	view     *config.View
	index    *resource.Index
}

// Application owns the resolved configuration and the resource index.
// After New returns, every accessor is safe for concurrent use.
type Application struct {
	mu sync.RWMutex

	opts     Options
	resolver *config.Resolver
	log      *logging.Logger

	current *snapshot

	watcher *watcher.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	closed  atomic.Bool
}

// New boots the application: resolve configuration, wrap it in a view,
// build the resource index, report the startup summary. On failure
// everything already started is torn down.
func New(opts Options) (*Application, error) {
	a := &Application{
		opts: opts,
		done: make(chan struct{}),
	}

	if err := a.bootstrap(); err != nil {
		a.Shutdown()
		return nil, err
	}

	return a, nil
}

// bootstrap initializes components in dependency order.
func (a *Application) bootstrap() error {
	// 1. Resolver and configuration snapshot.
	resolverOpts := []config.Option{
		config.WithMode(a.opts.Mode),
	}
	if a.opts.Root != "" {
		resolverOpts = append(resolverOpts, config.WithRoot(a.opts.Root))
	}
	if a.opts.BasePath != "" {
		resolverOpts = append(resolverOpts, config.WithBasePath(a.opts.BasePath))
	}
	if a.opts.OverlayPath != "" {
		resolverOpts = append(resolverOpts, config.WithOverlayPath(a.opts.OverlayPath))
	}
	if a.opts.Logger != nil {
		resolverOpts = append(resolverOpts, config.WithLogger(a.opts.Logger))
	}

	resolver, err := config.NewResolver(resolverOpts...)
	if err != nil {
		return &InitError{Component: "resolver", Err: err}
	}
	a.resolver = resolver

	snap, err := a.buildSnapshot()
	if err != nil {
		return err
	}
	a.log = resolver.Logger()
	a.current = snap

	// 2. Source watcher (optional).
	if a.opts.Watch {
		if err := a.startWatcher(); err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
	}

	a.logSummary(snap)
	return nil
}

// buildSnapshot runs a full resolution and index pass.
func (a *Application) buildSnapshot() (*snapshot, error) {
	resolved, err := a.resolver.Resolve()
	if err != nil {
		return nil, &InitError{Component: "configuration", Err: err}
	}

	view := config.NewView(resolved, a.resolver.Logger())

	index, err := resource.NewIndex(a.opts.Mode,
		resource.WithBundleRoot(a.resolver.Root()),
		resource.WithWorkDir(a.resolver.Root()),
		resource.WithIndexLogger(a.resolver.Logger()),
	)
	if err != nil {
		return nil, &InitError{Component: "resource index", Err: err}
	}
	if err := index.Initialize(resource.DefsFromView(view)); err != nil {
		return nil, &InitError{Component: "resource index", Err: err}
	}

	return &snapshot{resolved: resolved, view: view, index: index}, nil
}

func (a *Application) startWatcher() error {
	w, err := watcher.New(watcher.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.watcher = w

	for _, path := range []string{a.resolver.BasePath(), a.resolver.OverlayPath()} {
		if err := w.AddFile(path); err != nil {
			return err
		}
	}

	a.wg.Add(1)
	go a.watchLoop()
	return nil
}

// watchLoop triggers a full reload per change notification.
func (a *Application) watchLoop() {
	defer a.wg.Done()

	for {
		select {
		case <-a.done:
			return
		case path, ok := <-a.watcher.Changes():
			if !ok {
				return
			}
			a.log.Info("app", "configuration source changed: %s", path)
			if err := a.Reload(); err != nil {
				a.log.Error("app", "reload failed, keeping previous snapshot: %v", err)
			}
		case err, ok := <-a.watcher.Errors():
			if !ok {
				return
			}
			a.log.Warning("app", "watch error: %v", err)
		}
	}
}

// Reload rebuilds the configuration snapshot and resource index from
// the current sources and swaps them in atomically. On failure the
// previous snapshot stays in place.
func (a *Application) Reload() error {
	if a.closed.Load() {
		return ErrAlreadyClosed
	}

	snap, err := a.buildSnapshot()
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.current = snap
	a.mu.Unlock()

	a.log.Info("app", "configuration reloaded (%d keys, %d resource categories)",
		snap.resolved.Len(), len(snap.index.Categories()))
	return nil
}

// View returns the current configuration view.
func (a *Application) View() *config.View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current.view
}

// Resolved returns the current configuration snapshot.
func (a *Application) Resolved() *config.Resolved {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current.resolved
}

// Resources returns the current resource index.
func (a *Application) Resources() *resource.Index {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current.index
}

// Mode returns the execution mode.
func (a *Application) Mode() runmode.Mode {
	return a.opts.Mode
}

// Logger returns the observability sink.
func (a *Application) Logger() *logging.Logger {
	return a.log
}

// Shutdown stops the watcher and closes the sink. Safe to call more
// than once.
func (a *Application) Shutdown() {
	if !a.closed.CompareAndSwap(false, true) {
		return
	}

	close(a.done)
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	a.wg.Wait()

	if a.log != nil {
		a.log.Info("app", "shutdown complete")
		_ = a.log.Close()
	}
}

// logSummary reports the startup diagnostics.
func (a *Application) logSummary(snap *snapshot) {
	a.log.Info("app", "mode: %s, root: %s", a.opts.Mode, a.resolver.Root())
	if snap.resolved.BaseMissing() {
		a.log.Warning("app", "running without base configuration")
	}
	a.log.Info("app", "configuration resolved: %d keys", snap.resolved.Len())
	a.log.Info("app", "resource categories: %v", snap.index.Categories())
}
