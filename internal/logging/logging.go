// Package logging is the observability sink for the application core.
//
// The logger writes leveled, timestamped lines to the console (optionally
// ANSI-colored) and, when persistence logging is enabled, appends the same
// lines to a log file created with a descriptive session header. Behavior
// is driven by environment variables, which form the handoff contract with
// the configuration resolver:
//
//	CONSOLE_OUTPUT_ENABLED          enable console output
//	CONSOLE_OUTPUT_LEVEL            minimum console level (default INFO)
//	CONSOLE_FORCE_COLORED           color output even without a TTY
//	PERSISTENCE_LOGGING             enable the log file (forces DEBUG level)
//	PERSISTENCE_LOGGING_TARGET_NAME application name for the file header
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"
)

// logFileName is the fixed name of the persistent log file, created in
// the project root.
const logFileName = "__app.log"

// ansi color codes per level; console only, never written to the file.
var levelColors = map[Level]string{
	LevelDebug:    "\033[38;5;213m",
	LevelInfo:     "\033[38;5;39m",
	LevelWarning:  "\033[38;5;214m",
	LevelError:    "\033[38;5;196m",
	LevelCritical: "\033[1;41m",
}

const ansiReset = "\033[0m"

// Config controls logger construction.
type Config struct {
	// Level is the minimum level to emit.
	Level Level

	// Console enables console output.
	Console bool

	// Colored forces colored console output even without a TTY.
	Colored bool

	// Persist enables the append-only log file.
	Persist bool

	// AppName labels the log file header.
	AppName string

	// Root is the directory holding the log file. Defaults to the
	// working directory.
	Root string

	// Output overrides the console writer. Defaults to os.Stdout.
	Output io.Writer
}

// FromEnv builds a Config from the process environment. Persistence
// logging forces the DEBUG level, matching the contract the resolver
// relies on.
func FromEnv(root string) Config {
	cfg := Config{
		Console: truthy(os.Getenv("CONSOLE_OUTPUT_ENABLED")),
		Colored: truthy(os.Getenv("CONSOLE_FORCE_COLORED")),
		Persist: truthy(os.Getenv("PERSISTENCE_LOGGING")),
		AppName: os.Getenv("PERSISTENCE_LOGGING_TARGET_NAME"),
		Root:    root,
	}

	if cfg.Persist {
		cfg.Level = LevelDebug
	} else {
		lvl, err := ParseLevel(os.Getenv("CONSOLE_OUTPUT_LEVEL"))
		if err != nil {
			lvl = LevelInfo
		}
		cfg.Level = lvl
	}

	return cfg
}

// truthy reports whether an environment value means "enabled".
func truthy(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Logger writes leveled log lines to the console and, optionally, a file.
type Logger struct {
	mu        sync.Mutex
	level     Level
	console   bool
	colored   bool
	out       io.Writer
	file      *os.File
	filePath  string
	sessionID string
	disabled  bool
}

// New creates a logger from the given configuration. When persistence is
// enabled the log file is opened (created with a session header if new)
// under cfg.Root.
func New(cfg Config) (*Logger, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	l := &Logger{
		level:     cfg.Level,
		console:   cfg.Console,
		colored:   cfg.Colored || isTerminal(out),
		out:       out,
		sessionID: uuid.New().String(),
	}

	if cfg.Persist {
		root := cfg.Root
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			root = wd
		}

		path := filepath.Join(root, logFileName)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}

		l.file = f
		l.filePath = path

		info, err := f.Stat()
		if err == nil && info.Size() == 0 {
			l.writeHeader(cfg)
		}
	}

	l.Debug("logging", "logger configured")
	return l, nil
}

// isTerminal reports whether the writer is a TTY.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// writeHeader writes the descriptive session header to a fresh log file.
func (l *Logger) writeHeader(cfg Config) {
	appName := cfg.AppName
	if appName == "" {
		appName = "<Unnamed Application>"
	}

	wd, _ := os.Getwd()
	lines := []string{
		strings.Repeat("=", 70),
		fmt.Sprintf("> LOG FILE for %s", appName),
		fmt.Sprintf("  Session started: %s", time.Now().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("  Session id:      %s", l.sessionID),
		"",
		"> CONFIGURATION: ",
		fmt.Sprintf("   Log Level ........... %s", l.level),
		fmt.Sprintf("   Forced Colored Output %s", enabledWord(cfg.Colored)),
		"",
		"> SYSTEM INFO: ",
		fmt.Sprintf("   Runtime .............. %s", runtime.Version()),
		fmt.Sprintf("   Platform ............. %s %s", runtime.GOOS, runtime.GOARCH),
		fmt.Sprintf("   Working Directory .... %s", wd),
		strings.Repeat("=", 70),
		"",
	}

	if _, err := l.file.WriteString(strings.Join(lines, "\n") + "\n"); err != nil && l.console {
		fmt.Fprintf(l.out, "!!! - failed to write log file header: %v\n", err)
	}
}

func enabledWord(on bool) string {
	if on {
		return "Enabled"
	}
	return "Disabled"
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// FilePath returns the persistent log file path, or "" when persistence
// is disabled.
func (l *Logger) FilePath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filePath
}

// Log writes a message at the given level with a component tag.
func (l *Logger) Log(level Level, tag, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disabled || level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	plain := fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, level, tag, msg)

	if l.console {
		line := plain
		if l.colored {
			if color, ok := levelColors[level]; ok {
				line = color + plain + ansiReset
			}
		}
		fmt.Fprintln(l.out, line)
	}

	if l.file != nil {
		if _, err := l.file.WriteString(plain + "\n"); err != nil && l.console {
			fmt.Fprintf(l.out, "!!! - failed to write to log file: %v\n", err)
		}
	}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(tag, msg string, args ...any) {
	l.Log(LevelDebug, tag, format(msg, args...))
}

// Info logs an informational message.
func (l *Logger) Info(tag, msg string, args ...any) {
	l.Log(LevelInfo, tag, format(msg, args...))
}

// Warning logs a warning message.
func (l *Logger) Warning(tag, msg string, args ...any) {
	l.Log(LevelWarning, tag, format(msg, args...))
}

// Error logs an error message.
func (l *Logger) Error(tag, msg string, args ...any) {
	l.Log(LevelError, tag, format(msg, args...))
}

// Critical logs a critical message.
func (l *Logger) Critical(tag, msg string, args ...any) {
	l.Log(LevelCritical, tag, format(msg, args...))
}

func format(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Null is a logger that discards all output.
var Null = &Logger{disabled: true}
