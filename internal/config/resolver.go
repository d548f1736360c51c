package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/appstage/internal/config/loader"
	"github.com/dshills/appstage/internal/logging"
	"github.com/dshills/appstage/internal/runmode"
)

// Default source file names, resolved relative to the project root.
const (
	DefaultBaseFile    = "config.toml"
	DefaultOverlayFile = ".env"
)

// Resolver orchestrates the base and overlay loaders into a frozen
// Resolved snapshot. A Resolver also owns the one-time configuration of
// the observability sink: the resolved application name and persistence
// flag are handed to the sink through the documented environment
// variables before the sink is created.
type Resolver struct {
	root        string
	mode        runmode.Mode
	basePath    string
	overlayPath string
	logger      *logging.Logger
	fs          loader.FileSystem
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRoot sets the project root directory.
func WithRoot(root string) Option {
	return func(r *Resolver) {
		r.root = root
	}
}

// WithMode sets the execution mode instead of detecting it.
func WithMode(mode runmode.Mode) Option {
	return func(r *Resolver) {
		r.mode = mode
	}
}

// WithBasePath sets the base configuration file path.
func WithBasePath(path string) Option {
	return func(r *Resolver) {
		r.basePath = path
	}
}

// WithOverlayPath sets the overlay file path.
func WithOverlayPath(path string) Option {
	return func(r *Resolver) {
		r.overlayPath = path
	}
}

// WithLogger supplies an already-configured sink. When set, the resolver
// skips sink construction and reports through the given logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithFileSystem sets the file system used by the base loader.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(r *Resolver) {
		r.fs = fs
	}
}

// NewResolver creates a resolver for the given options. Paths default to
// config.toml and .env under the project root; the root defaults to the
// mode-appropriate location (working directory in dev, the executable's
// directory when packaged).
func NewResolver(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		mode: runmode.Detect(),
		fs:   loader.DefaultFS(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.root == "" {
		root, err := runmode.Root(r.mode)
		if err != nil {
			return nil, err
		}
		r.root = root
	}

	if r.basePath == "" {
		r.basePath = filepath.Join(r.root, DefaultBaseFile)
	}
	if r.overlayPath == "" {
		r.overlayPath = filepath.Join(r.root, DefaultOverlayFile)
	}

	return r, nil
}

// Logger returns the observability sink configured during resolution.
// Before Resolve it may be nil unless one was supplied.
func (r *Resolver) Logger() *logging.Logger {
	return r.logger
}

// BasePath returns the base configuration file path.
func (r *Resolver) BasePath() string {
	return r.basePath
}

// OverlayPath returns the overlay file path.
func (r *Resolver) OverlayPath() string {
	return r.overlayPath
}

// Root returns the project root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve loads, merges, flattens and freezes the configuration.
//
// The only fatal condition is a present-but-corrupt base file, which
// propagates as a *loader.ParseError. An absent base file is reported
// and yields a snapshot containing only the dev-mode meta-flag.
func (r *Resolver) Resolve() (*Resolved, error) {
	base, err := loader.NewTOMLLoaderWithFS(r.fs, r.basePath).Load()
	if err != nil {
		return nil, err
	}

	overlay := loader.NewOverlayLoader(r.overlayPath)

	var overlayEntries map[string]any
	if r.mode.IsDev() {
		if overlay.Exists() {
			entries, loadErr := overlay.Load()
			r.initSink()
			if loadErr != nil {
				// Only a corrupt base file is fatal; a corrupt overlay
				// degrades to running without overlay entries.
				r.logger.Warning("config", "overlay at %s is malformed, ignoring: %v", r.overlayPath, loadErr)
			} else {
				overlayEntries = entries
			}
		} else {
			r.initSink()
			r.logger.Warning("config", "overlay not found at %s, skipping...", r.overlayPath)
		}
	} else {
		r.configureSinkFromBase(base)
	}

	resolved := &Resolved{
		values: make(map[string]any),
		mode:   r.mode,
	}

	if base == nil {
		resolved.baseMissing = true
		r.logger.Error("config", "failed to load base configuration from %s: %v", r.basePath, ErrMissingBase)
		resolved.values[MetaKeyDevMode] = r.mode.IsDev()
		return resolved, nil
	}

	// Flatten {section}.{key} into SECTION_KEY. Section names are unique
	// by construction, so flattening never collides.
	for section, entry := range base {
		table, ok := entry.(map[string]any)
		if !ok {
			r.logger.Debug("config", "skipping non-table entry %q in base configuration", section)
			continue
		}
		for key, value := range table {
			flat := strings.ToUpper(section) + "_" + strings.ToUpper(key)
			resolved.values[flat] = value
		}
	}

	// Overlay values always take precedence over base values.
	for key, value := range overlayEntries {
		resolved.values[key] = value
	}

	resolved.values[MetaKeyDevMode] = r.mode.IsDev()
	return resolved, nil
}

// initSink creates the sink from the current process environment unless
// one was supplied.
func (r *Resolver) initSink() {
	if r.logger != nil {
		return
	}
	l, err := logging.New(logging.FromEnv(r.root))
	if err != nil {
		l = logging.Null
	}
	r.logger = l
}

// configureSinkFromBase derives logging activation from the base
// configuration when not in development mode. Persistence logging
// defaults to enabled when the base file is entirely absent. The
// resolved application name is handed to the sink through the
// environment, which is the sink's initialization contract.
func (r *Resolver) configureSinkFromBase(base map[string]any) {
	persist := base == nil
	if base != nil {
		if logTable, ok := base["logging"].(map[string]any); ok {
			if flag, ok := logTable["persistence_logging"].(bool); ok {
				persist = flag
			}
		}
	}

	if persist {
		os.Setenv("PERSISTENCE_LOGGING", "True")
		if appTable, ok := base["app"].(map[string]any); ok {
			if name, ok := appTable["name"].(string); ok {
				os.Setenv("PERSISTENCE_LOGGING_TARGET_NAME", name)
			}
		}
	}

	r.initSink()
}
