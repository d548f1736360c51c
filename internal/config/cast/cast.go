// Package cast coerces raw string configuration values into typed values.
//
// The coercion rules form a fixed ordered chain that stops at the first
// success: the LOG_LEVEL and THEME_MODE keys parse against their
// enumerations, then boolean, then positive integer, then the path
// heuristic for keys containing PATH, DIR or FILE, and finally string
// passthrough. The chain is load-bearing behavior: callers rely on the
// exact order and on each step being total (failure falls through rather
// than aborting).
package cast

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/appstage/internal/logging"
)

// Keys with dedicated enumeration parsing.
const (
	KeyLogLevel  = "LOG_LEVEL"
	KeyThemeMode = "THEME_MODE"
)

// Kind tags the resolved semantic type of a cast value. Once cast, a
// value's kind is stable for the remainder of the process.
type Kind uint8

const (
	// KindRaw marks a structured value passed through untouched.
	KindRaw Kind = iota
	// KindBool marks a boolean.
	KindBool
	// KindPositiveInt marks an integer strictly greater than zero.
	KindPositiveInt
	// KindLogLevel marks a logging severity.
	KindLogLevel
	// KindThemeMode marks a theme selection.
	KindThemeMode
	// KindFilePath marks an absolute file path.
	KindFilePath
	// KindDirPath marks an absolute directory path.
	KindDirPath
	// KindString marks a plain string.
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindBool:
		return "bool"
	case KindPositiveInt:
		return "positive_int"
	case KindLogLevel:
		return "log_level"
	case KindThemeMode:
		return "theme_mode"
	case KindFilePath:
		return "file_path"
	case KindDirPath:
		return "dir_path"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Cast coerces a raw string into a typed value using the fixed chain.
// The returned Kind tags the step that succeeded. Errors are returned
// only for the enumeration keys and for path validation; everything else
// falls through to string passthrough.
func Cast(key, raw string) (any, Kind, error) {
	if key == KeyLogLevel {
		lvl, err := logging.ParseLevel(raw)
		if err != nil {
			return nil, KindLogLevel, &EnumError{
				Key:     key,
				Raw:     raw,
				Allowed: []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"},
			}
		}
		return lvl, KindLogLevel, nil
	}

	if key == KeyThemeMode {
		mode, err := ParseThemeMode(raw)
		if err != nil {
			return nil, KindThemeMode, err
		}
		return mode, KindThemeMode, nil
	}

	if b, ok := ParseBool(raw); ok {
		return b, KindBool, nil
	}

	if n, ok := ParsePositiveInt(raw); ok {
		return n, KindPositiveInt, nil
	}

	if isPathKey(key) {
		return castPath(key, raw)
	}

	return raw, KindString, nil
}

// ParseBool parses the accepted boolean spellings case-insensitively.
// The second return reports whether the value was a boolean at all.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "yes", "1", "on":
		return true, true
	case "false", "no", "0", "off":
		return false, true
	default:
		return false, false
	}
}

// ParsePositiveInt parses an integer strictly greater than zero.
// The second return reports whether the value qualified.
func ParsePositiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// isPathKey reports whether the key names a filesystem value. The
// substring match is case-sensitive on purpose; lower-case key fragments
// never trigger path handling.
func isPathKey(key string) bool {
	return strings.Contains(key, "PATH") ||
		strings.Contains(key, "DIR") ||
		strings.Contains(key, "FILE")
}

// castPath expands the value to an absolute, user-expanded path. Values
// with a file extension are treated as file paths (no existence
// requirement); everything else is a directory path, created if missing.
func castPath(key, raw string) (any, Kind, error) {
	expanded, err := expandUser(raw)
	if err != nil {
		return nil, KindFilePath, &CastError{Key: key, Raw: raw, Message: "cannot expand path", Err: err}
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, KindFilePath, &CastError{Key: key, Raw: raw, Message: "cannot resolve path", Err: err}
	}

	if filepath.Ext(abs) != "" {
		return abs, KindFilePath, nil
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, KindDirPath, &CastError{Key: key, Raw: raw, Message: "cannot create directory", Err: err}
	}
	return abs, KindDirPath, nil
}

// expandUser replaces a leading ~ with the user home directory.
func expandUser(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
