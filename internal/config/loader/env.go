package loader

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/joho/godotenv"

	"github.com/dshills/appstage/internal/config/cast"
)

// OverlayLoader loads the flat KEY=VALUE overlay file. The overlay is
// consulted only in development mode; the caller gates activation.
//
// Loading applies the overlay to the process environment (existing
// variables are not overridden) and then collects every fully-uppercase
// environment variable, casting each value. A value that fails to cast
// is retained as its raw string; the overlay never drops a key.
type OverlayLoader struct {
	path string
}

// NewOverlayLoader creates an overlay loader for the given .env path.
func NewOverlayLoader(path string) *OverlayLoader {
	return &OverlayLoader{path: path}
}

// Path returns the overlay file path.
func (l *OverlayLoader) Path() string {
	return l.path
}

// Exists reports whether the overlay file is present.
func (l *OverlayLoader) Exists() bool {
	info, err := os.Stat(l.path)
	return err == nil && !info.IsDir()
}

// Load reads the overlay. Returns nil, nil when the file is absent.
func (l *OverlayLoader) Load() (map[string]any, error) {
	if !l.Exists() {
		return nil, nil
	}

	if err := godotenv.Load(l.path); err != nil {
		return nil, fmt.Errorf("loading overlay %s: %w", l.path, err)
	}

	entries := make(map[string]any)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key, raw := parts[0], parts[1]
		if !isUpperKey(key) {
			continue
		}

		val, _, err := cast.Cast(key, raw)
		if err != nil {
			entries[key] = raw // cast failure keeps the raw string
			continue
		}
		entries[key] = val
	}

	return entries, nil
}

// isUpperKey reports whether a variable name is fully upper-case: at
// least one letter and no lower-case letters. Digits and underscores are
// allowed.
func isUpperKey(key string) bool {
	hasLetter := false
	for _, r := range key {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
