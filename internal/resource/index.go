// Package resource builds the per-category file index the application
// serves assets from.
//
// Categories are declared through configuration keys prefixed
// RESOURCES_; the suffix, lower-cased, becomes the category name. Each
// category resolves to one absolute directory whose contents are
// enumerated exactly once, at initialization. The resulting index is a
// startup snapshot: it is never kept in sync with the filesystem and is
// safe for concurrent readers.
package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/appstage/internal/config"
	"github.com/dshills/appstage/internal/logging"
	"github.com/dshills/appstage/internal/runmode"
)

// CategoryPrefix selects the configuration keys that declare resource
// categories.
const CategoryPrefix = "RESOURCES_"

// baseKey is reserved: it names the development-mode parent directory
// instead of declaring a category.
const baseKey = "base"

// defaultBase is the development-mode parent directory used when no
// base entry is declared.
const defaultBase = "resources"

// packagedDir is the fixed resource directory name inside a packaged
// bundle.
const packagedDir = "resources"

// Category is one named resource group: its resolved absolute
// directory and the files found under it at initialization.
type Category struct {
	Name  string
	Dir   string
	files []string
}

// Files returns a copy of the category's file snapshot.
func (c *Category) Files() []string {
	out := make([]string, len(c.files))
	copy(out, c.files)
	return out
}

// Index maps category names to their resolved directories and file
// snapshots. Build one with NewIndex and Initialize; afterward it is
// read-only.
type Index struct {
	mode       runmode.Mode
	bundleRoot string
	workDir    string
	log        *logging.Logger
	categories map[string]*Category
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithBundleRoot sets the packaged bundle root directory.
func WithBundleRoot(root string) IndexOption {
	return func(i *Index) {
		i.bundleRoot = root
	}
}

// WithWorkDir sets the directory relative declarations resolve against
// in development mode. Defaults to the process working directory.
func WithWorkDir(dir string) IndexOption {
	return func(i *Index) {
		i.workDir = dir
	}
}

// WithIndexLogger sets the observability sink.
func WithIndexLogger(l *logging.Logger) IndexOption {
	return func(i *Index) {
		i.log = l
	}
}

// NewIndex creates an empty index for the given execution mode.
func NewIndex(mode runmode.Mode, opts ...IndexOption) (*Index, error) {
	idx := &Index{
		mode:       mode,
		log:        logging.Null,
		categories: make(map[string]*Category),
	}

	for _, opt := range opts {
		opt(idx)
	}

	if idx.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determining working directory: %w", err)
		}
		idx.workDir = wd
	}
	if idx.bundleRoot == "" {
		root, err := runmode.Root(mode)
		if err != nil {
			return nil, err
		}
		idx.bundleRoot = root
	}

	return idx, nil
}

// DefsFromView collects the category declarations from the resolved
// configuration: every RESOURCES_* key, suffix lower-cased.
func DefsFromView(view *config.View) map[string]string {
	defs := make(map[string]string)
	for _, key := range view.Keys() {
		if !strings.HasPrefix(key, CategoryPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, CategoryPrefix))
		if name == "" {
			continue
		}
		defs[name] = fmt.Sprint(view.Get(key))
	}
	return defs
}

// Initialize resolves each declared category's directory and takes the
// one-time file snapshot. The reserved base entry names the
// development-mode parent directory and declares no category of its
// own. Directory creation happens in development mode only. A category
// whose directory cannot be enumerated gets an empty snapshot; only
// directory creation failures abort initialization.
func (i *Index) Initialize(defs map[string]string) error {
	base := defs[baseKey]
	if base == "" {
		base = defaultBase
	}

	for name, declared := range defs {
		if name == baseKey {
			continue
		}

		dir := i.categoryDir(name, declared, base)

		if i.mode.IsDev() {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating resource directory for %s: %w", name, err)
			}
		}

		files, err := enumerate(dir)
		if err != nil {
			i.log.Warning("resource", "cannot enumerate %s directory %s: %v", name, dir, err)
			files = nil
		}

		i.categories[name] = &Category{Name: name, Dir: dir, files: files}
		i.log.Debug("resource", "indexed category %s at %s (%d files)", name, dir, len(files))
	}

	return nil
}

// categoryDir resolves a category's absolute directory. Packaged
// bundles have a fixed layout, so the declared path is ignored there.
func (i *Index) categoryDir(name, declared, base string) string {
	if !i.mode.IsDev() {
		return filepath.Join(i.bundleRoot, packagedDir, name)
	}
	if filepath.IsAbs(declared) {
		return filepath.Clean(declared)
	}
	if filepath.IsAbs(base) {
		return filepath.Join(base, filepath.Base(declared))
	}
	return filepath.Join(i.workDir, base, filepath.Base(declared))
}

// ResolveIn resolves a file name or path within a category. Fallback
// order: the argument verbatim when it already exists, then joined to
// the category directory, then (packaged only) joined to the bundle's
// fixed resource directory. Exhausting the chain yields a
// *NotFoundError.
func (i *Index) ResolveIn(category, nameOrPath string) (string, error) {
	cat, ok := i.categories[category]
	if !ok {
		return "", &UnknownCategoryError{Category: category}
	}

	if pathExists(nameOrPath) {
		abs, err := filepath.Abs(nameOrPath)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", nameOrPath, err)
		}
		return abs, nil
	}

	if joined := filepath.Join(cat.Dir, nameOrPath); pathExists(joined) {
		return joined, nil
	}

	if !i.mode.IsDev() {
		if joined := filepath.Join(i.bundleRoot, packagedDir, nameOrPath); pathExists(joined) {
			return joined, nil
		}
	}

	return "", &NotFoundError{Category: category, Name: nameOrPath}
}

// List returns the category's startup snapshot. It never re-scans the
// filesystem.
func (i *Index) List(category string) ([]string, error) {
	cat, ok := i.categories[category]
	if !ok {
		return nil, &UnknownCategoryError{Category: category}
	}
	return cat.Files(), nil
}

// Dir returns a category's resolved directory.
func (i *Index) Dir(category string) (string, error) {
	cat, ok := i.categories[category]
	if !ok {
		return "", &UnknownCategoryError{Category: category}
	}
	return cat.Dir, nil
}

// Categories returns the declared category names in sorted order.
func (i *Index) Categories() []string {
	names := make([]string, 0, len(i.categories))
	for name := range i.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every category's file snapshot keyed by category name.
func (i *Index) All() map[string][]string {
	out := make(map[string][]string, len(i.categories))
	for name, cat := range i.categories {
		out[name] = cat.Files()
	}
	return out
}

// enumerate recursively lists the files under dir. Symlinks are
// followed and hidden files are included. Results are sorted for
// deterministic snapshots.
func enumerate(dir string) ([]string, error) {
	var files []string
	if err := collect(dir, &files); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func collect(dir string, files *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			continue // broken symlink
		}
		if info.IsDir() {
			if err := collect(path, files); err != nil {
				return err
			}
			continue
		}
		*files = append(*files, path)
	}
	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
