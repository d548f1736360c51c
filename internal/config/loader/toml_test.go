package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[app]
name = "Appstage"
version = "1.2.0"

[window]
width = 1024
resizable = true
`)

	l := NewTOMLLoaderWithFS(memfs, "/config.toml")
	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	app, ok := config["app"].(map[string]any)
	if !ok {
		t.Fatal("expected app to be a map")
	}
	if app["name"] != "Appstage" {
		t.Errorf("name = %v, want 'Appstage'", app["name"])
	}

	window, ok := config["window"].(map[string]any)
	if !ok {
		t.Fatal("expected window to be a map")
	}
	if window["width"] != int64(1024) {
		t.Errorf("width = %v (%T), want 1024", window["width"], window["width"])
	}
	if window["resizable"] != true {
		t.Errorf("resizable = %v, want true", window["resizable"])
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	memfs := NewMemFS()
	l := NewTOMLLoaderWithFS(memfs, "/nonexistent.toml")

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if config != nil {
		t.Errorf("config = %v, want nil for missing file", config)
	}
}

func TestTOMLLoader_LoadMalformed(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `[app
name = `)

	l := NewTOMLLoaderWithFS(memfs, "/config.toml")
	_, err := l.Load()
	if err == nil {
		t.Fatal("expected parse error for malformed TOML")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if parseErr.Path != "/config.toml" {
		t.Errorf("Path = %q, want /config.toml", parseErr.Path)
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	l := NewTOMLLoader("")
	config, err := l.LoadFromReader(stringsReader("[logging]\npersistence_logging = true\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	logging, ok := config["logging"].(map[string]any)
	if !ok {
		t.Fatal("expected logging to be a map")
	}
	if logging["persistence_logging"] != true {
		t.Errorf("persistence_logging = %v, want true", logging["persistence_logging"])
	}
}
