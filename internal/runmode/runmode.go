// Package runmode detects whether the process is running from source or
// from a packaged bundle.
//
// Development mode is the default. Packaged builds set the bundle marker
// at link time:
//
//	go build -ldflags "-X github.com/dshills/appstage/internal/runmode.packaged=1"
//
// The mode decides both overlay activation and resource root resolution,
// so it is detected once at startup and passed explicitly to anything
// that branches on it.
package runmode

import (
	"os"
	"path/filepath"
)

// packaged is the bundle marker (set via ldflags; empty in dev runs).
var packaged string

// Mode is the execution mode of the process.
type Mode int

const (
	// Dev means the process runs from source.
	Dev Mode = iota

	// Packaged means the process runs from a packaged bundle.
	Packaged
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Dev:
		return "development"
	case Packaged:
		return "packaged"
	default:
		return "unknown"
	}
}

// IsDev reports whether the mode is development.
func (m Mode) IsDev() bool {
	return m == Dev
}

// Detect returns the execution mode based on the bundle marker.
func Detect() Mode {
	if packaged != "" {
		return Packaged
	}
	return Dev
}

// Root returns the project root for the given mode: the directory of the
// executable for packaged bundles, the working directory for dev runs.
func Root(m Mode) (string, error) {
	if m == Packaged {
		exe, err := os.Executable()
		if err != nil {
			return "", err
		}
		resolved, err := filepath.EvalSymlinks(exe)
		if err != nil {
			resolved = exe
		}
		return filepath.Dir(resolved), nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Abs(wd)
}
