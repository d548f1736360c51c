package config

import (
	"github.com/dshills/appstage/internal/logging"
)

// Outcome classifies a single read through a View. Outcomes exist for
// observability only; a read never fails.
type Outcome int

const (
	// Hit means the key was present.
	Hit Outcome = iota
	// DefaultedMiss means the key was absent and a default was supplied.
	DefaultedMiss
	// UnrecoverableMiss means the key was absent with no default.
	UnrecoverableMiss
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case DefaultedMiss:
		return "defaulted_miss"
	case UnrecoverableMiss:
		return "unrecoverable_miss"
	default:
		return "unknown"
	}
}

// Reporter receives the outcome of every read through a View.
type Reporter interface {
	Report(outcome Outcome, key string, value any)
}

// sinkReporter reports outcomes to the logging sink: hits at debug,
// defaulted misses at warning, unrecoverable misses at error severity.
type sinkReporter struct {
	log *logging.Logger
}

func (s sinkReporter) Report(outcome Outcome, key string, value any) {
	switch outcome {
	case Hit:
		s.log.Debug("config", "read %s = %v", key, value)
	case DefaultedMiss:
		s.log.Warning("config", "key %s not set, using default %v", key, value)
	case UnrecoverableMiss:
		s.log.Error("config", "key %s not set and no default given", key)
	}
}

// View is an instrumented, read-only wrapper around a Resolved snapshot.
// It never fails: absent keys yield the supplied default or nil. All
// methods are safe for concurrent use.
type View struct {
	resolved *Resolved
	reporter Reporter
}

// NewView creates a view reporting to the given sink.
func NewView(resolved *Resolved, log *logging.Logger) *View {
	if log == nil {
		log = logging.Null
	}
	return &View{resolved: resolved, reporter: sinkReporter{log: log}}
}

// NewViewWithReporter creates a view with a custom outcome reporter.
func NewViewWithReporter(resolved *Resolved, reporter Reporter) *View {
	return &View{resolved: resolved, reporter: reporter}
}

// Get returns the stored value, or nil when the key is absent. The
// absence is reported as an unrecoverable miss.
func (v *View) Get(key string) any {
	if val, ok := v.resolved.Get(key); ok {
		v.reporter.Report(Hit, key, val)
		return val
	}
	v.reporter.Report(UnrecoverableMiss, key, nil)
	return nil
}

// GetDefault returns the stored value, or the default when the key is
// absent. The absence is reported as a defaulted miss.
func (v *View) GetDefault(key string, def any) any {
	if val, ok := v.resolved.Get(key); ok {
		v.reporter.Report(Hit, key, val)
		return val
	}
	v.reporter.Report(DefaultedMiss, key, def)
	return def
}

// String returns the value as a string, or the default when the key is
// absent or not a string.
func (v *View) String(key, def string) string {
	if s, ok := v.GetDefault(key, def).(string); ok {
		return s
	}
	return def
}

// Int returns the value as an int, or the default when the key is
// absent or not numeric. TOML integers arrive as int64.
func (v *View) Int(key string, def int) int {
	switch n := v.GetDefault(key, def).(type) {
	case int:
		return n
	case int64:
		return int(n)
	default:
		return def
	}
}

// Bool returns the value as a bool, or the default when the key is
// absent or not boolean.
func (v *View) Bool(key string, def bool) bool {
	if b, ok := v.GetDefault(key, def).(bool); ok {
		return b
	}
	return def
}

// Keys returns the snapshot's keys in sorted order.
func (v *View) Keys() []string {
	return v.resolved.Keys()
}

// IsDev reports whether the snapshot was resolved in development mode.
func (v *View) IsDev() bool {
	return v.resolved.IsDev()
}
