package config

import (
	"sort"

	"github.com/dshills/appstage/internal/runmode"
)

// MetaKeyDevMode is the meta-flag appended to every resolved snapshot.
const MetaKeyDevMode = "IS_DEV_MODE"

// Resolved is the frozen configuration snapshot: a flat mapping from
// upper-cased keys to typed values. It is created once per resolution,
// never mutated afterward, and safe for concurrent readers.
type Resolved struct {
	values      map[string]any
	mode        runmode.Mode
	baseMissing bool
}

// Get returns the value for a key and whether it is present.
func (r *Resolved) Get(key string) (any, bool) {
	val, ok := r.values[key]
	return val, ok
}

// Has reports whether a key is present.
func (r *Resolved) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns all keys in sorted order.
func (r *Resolved) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries, including the meta-flag.
func (r *Resolved) Len() int {
	return len(r.values)
}

// Mode returns the execution mode the snapshot was resolved under.
func (r *Resolved) Mode() runmode.Mode {
	return r.mode
}

// IsDev reports whether the snapshot was resolved in development mode.
func (r *Resolved) IsDev() bool {
	return r.mode.IsDev()
}

// BaseMissing reports whether the base configuration file was absent
// at resolution time.
func (r *Resolved) BaseMissing() bool {
	return r.baseMissing
}

// Snapshot returns a copy of the flat mapping. Mutating the copy does
// not affect the snapshot.
func (r *Resolved) Snapshot() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
