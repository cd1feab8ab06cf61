package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirsFollowXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	data, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if want := filepath.Join(base, "data", "promptsmith"); data != want {
		t.Errorf("DataDir = %q, want %q", data, want)
	}

	state, err := StateDir()
	if err != nil {
		t.Fatalf("StateDir failed: %v", err)
	}
	if want := filepath.Join(base, "state", "promptsmith"); state != want {
		t.Errorf("StateDir = %q, want %q", state, want)
	}

	if _, err := Ensure(state); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if info, err := os.Stat(state); err != nil || !info.IsDir() {
		t.Errorf("expected %q to exist as a directory", state)
	}
}

func TestDirsFallBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")

	data, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if want := filepath.Join(home, ".local", "share", "promptsmith"); data != want {
		t.Errorf("DataDir = %q, want %q", data, want)
	}
}
