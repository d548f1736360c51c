package runmode

import (
	"path/filepath"
	"testing"
)

func TestDetectDefaultsToDev(t *testing.T) {
	// The bundle marker is only ever set at link time.
	if packaged != "" {
		t.Skip("bundle marker set in this build")
	}
	if got := Detect(); got != Dev {
		t.Errorf("Detect() = %v, want Dev", got)
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Dev, "development"},
		{Packaged, "packaged"},
		{Mode(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestIsDev(t *testing.T) {
	if !Dev.IsDev() {
		t.Error("Dev.IsDev() = false, want true")
	}
	if Packaged.IsDev() {
		t.Error("Packaged.IsDev() = true, want false")
	}
}

func TestRootDevIsWorkingDirectory(t *testing.T) {
	root, err := Root(Dev)
	if err != nil {
		t.Fatalf("Root(Dev) error = %v", err)
	}
	if !filepath.IsAbs(root) {
		t.Errorf("Root(Dev) = %q, want an absolute path", root)
	}
}

func TestRootPackagedIsExecutableDirectory(t *testing.T) {
	root, err := Root(Packaged)
	if err != nil {
		t.Fatalf("Root(Packaged) error = %v", err)
	}
	if !filepath.IsAbs(root) {
		t.Errorf("Root(Packaged) = %q, want an absolute path", root)
	}
}
