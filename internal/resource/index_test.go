package resource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/appstage/internal/runmode"
)

func newDevIndex(t *testing.T, workDir string) *Index {
	t.Helper()
	idx, err := NewIndex(runmode.Dev, WithWorkDir(workDir), WithBundleRoot(workDir))
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return idx
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating parent directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestInitializeListsFiles(t *testing.T) {
	workDir := t.TempDir()
	iconDir := filepath.Join(workDir, "resources", "icons")
	touch(t, filepath.Join(iconDir, "open.svg"))
	touch(t, filepath.Join(iconDir, "save.svg"))
	touch(t, filepath.Join(iconDir, "nested", "close.svg"))

	idx := newDevIndex(t, workDir)
	if err := idx.Initialize(map[string]string{"icons": "icons"}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	files, err := idx.List("icons")
	if err != nil {
		t.Fatalf("List(icons) error = %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("List(icons) returned %d files, want 3: %v", len(files), files)
	}
	for _, f := range files {
		if !filepath.IsAbs(f) {
			t.Errorf("listed path %s is not absolute", f)
		}
	}
}

func TestInitializeCreatesMissingDirInDev(t *testing.T) {
	workDir := t.TempDir()

	idx := newDevIndex(t, workDir)
	if err := idx.Initialize(map[string]string{"fonts": "fonts"}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	dir, err := idx.Dir("fonts")
	if err != nil {
		t.Fatalf("Dir(fonts) error = %v", err)
	}
	info, statErr := os.Stat(dir)
	if statErr != nil || !info.IsDir() {
		t.Errorf("fonts directory %s was not created", dir)
	}
}

func TestInitializeSkipsBaseKey(t *testing.T) {
	workDir := t.TempDir()

	idx := newDevIndex(t, workDir)
	if err := idx.Initialize(map[string]string{
		"base":  "assets",
		"icons": "icons",
	}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if _, err := idx.List("base"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("List(base) error = %v, want ErrUnknownCategory", err)
	}

	dir, err := idx.Dir("icons")
	if err != nil {
		t.Fatalf("Dir(icons) error = %v", err)
	}
	want := filepath.Join(workDir, "assets", "icons")
	if dir != want {
		t.Errorf("Dir(icons) = %s, want %s (declared base honored)", dir, want)
	}
}

func TestDevModeAbsoluteBase(t *testing.T) {
	workDir := t.TempDir()
	absBase := t.TempDir()

	idx := newDevIndex(t, workDir)
	if err := idx.Initialize(map[string]string{
		"base":  absBase,
		"icons": "icons",
	}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	dir, err := idx.Dir("icons")
	if err != nil {
		t.Fatalf("Dir(icons) error = %v", err)
	}
	want := filepath.Join(absBase, "icons")
	if dir != want {
		t.Errorf("Dir(icons) = %s, want %s (absolute base used as-is)", dir, want)
	}
}

func TestDevModeAbsoluteDeclaredPath(t *testing.T) {
	workDir := t.TempDir()
	declared := filepath.Join(t.TempDir(), "shared-data")

	idx := newDevIndex(t, workDir)
	if err := idx.Initialize(map[string]string{"data": declared}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	dir, err := idx.Dir("data")
	if err != nil {
		t.Fatalf("Dir(data) error = %v", err)
	}
	if dir != declared {
		t.Errorf("Dir(data) = %s, want declared absolute path %s", dir, declared)
	}
}

func TestPackagedModeFixedLayout(t *testing.T) {
	bundle := t.TempDir()
	touch(t, filepath.Join(bundle, "resources", "icons", "open.svg"))

	idx, err := NewIndex(runmode.Packaged, WithBundleRoot(bundle), WithWorkDir(t.TempDir()))
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	// The declared path is ignored in packaged mode; layout is fixed.
	if err := idx.Initialize(map[string]string{"icons": "/somewhere/else"}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	dir, err := idx.Dir("icons")
	if err != nil {
		t.Fatalf("Dir(icons) error = %v", err)
	}
	want := filepath.Join(bundle, "resources", "icons")
	if dir != want {
		t.Errorf("Dir(icons) = %s, want %s", dir, want)
	}

	files, err := idx.List("icons")
	if err != nil {
		t.Fatalf("List(icons) error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("List(icons) returned %d files, want 1", len(files))
	}
}

func TestResolveInFallbackOrder(t *testing.T) {
	workDir := t.TempDir()
	iconDir := filepath.Join(workDir, "resources", "icons")
	inCategory := filepath.Join(iconDir, "save.svg")
	touch(t, inCategory)

	outside := filepath.Join(t.TempDir(), "elsewhere.svg")
	touch(t, outside)

	idx := newDevIndex(t, workDir)
	if err := idx.Initialize(map[string]string{"icons": "icons"}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	// An existing path outside the category resolves verbatim.
	got, err := idx.ResolveIn("icons", outside)
	if err != nil {
		t.Fatalf("ResolveIn(outside path) error = %v", err)
	}
	if got != outside {
		t.Errorf("ResolveIn(outside path) = %s, want %s", got, outside)
	}

	// A bare name resolves through the category directory.
	got, err = idx.ResolveIn("icons", "save.svg")
	if err != nil {
		t.Fatalf("ResolveIn(save.svg) error = %v", err)
	}
	if got != inCategory {
		t.Errorf("ResolveIn(save.svg) = %s, want %s", got, inCategory)
	}

	// A nonexistent name exhausts the chain.
	_, err = idx.ResolveIn("icons", "missing.svg")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveIn(missing.svg) error = %v, want ErrNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("ResolveIn(missing.svg) error = %T, want *NotFoundError", err)
	}
	if nf.Category != "icons" || nf.Name != "missing.svg" {
		t.Errorf("NotFoundError = %+v, want category icons, name missing.svg", nf)
	}
}

func TestResolveInPackagedBundleFallback(t *testing.T) {
	bundle := t.TempDir()
	shared := filepath.Join(bundle, "resources", "logo.png")
	touch(t, shared)

	idx, err := NewIndex(runmode.Packaged, WithBundleRoot(bundle), WithWorkDir(t.TempDir()))
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	if err := idx.Initialize(map[string]string{"icons": "icons"}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	got, err := idx.ResolveIn("icons", "logo.png")
	if err != nil {
		t.Fatalf("ResolveIn(logo.png) error = %v", err)
	}
	if got != shared {
		t.Errorf("ResolveIn(logo.png) = %s, want bundle fallback %s", got, shared)
	}
}

func TestListIsStartupSnapshot(t *testing.T) {
	workDir := t.TempDir()
	iconDir := filepath.Join(workDir, "resources", "icons")
	touch(t, filepath.Join(iconDir, "first.svg"))

	idx := newDevIndex(t, workDir)
	if err := idx.Initialize(map[string]string{"icons": "icons"}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	touch(t, filepath.Join(iconDir, "late.svg"))

	files, err := idx.List("icons")
	if err != nil {
		t.Fatalf("List(icons) error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("List(icons) after late write returned %d files, want snapshot of 1", len(files))
	}
}

func TestUnknownCategory(t *testing.T) {
	idx := newDevIndex(t, t.TempDir())
	if err := idx.Initialize(nil); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if _, err := idx.ResolveIn("nope", "file.txt"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("ResolveIn on unknown category error = %v, want ErrUnknownCategory", err)
	}
	if _, err := idx.List("nope"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("List on unknown category error = %v, want ErrUnknownCategory", err)
	}
}

func TestCategoriesSorted(t *testing.T) {
	idx := newDevIndex(t, t.TempDir())
	if err := idx.Initialize(map[string]string{
		"icons": "icons",
		"data":  "data",
		"fonts": "fonts",
	}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	got := idx.Categories()
	want := []string{"data", "fonts", "icons"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
