package paths

import (
	"os"
	"path/filepath"
)

// DataDir returns the promptsmith data directory, following XDG conventions:
// $XDG_DATA_HOME/promptsmith or ~/.local/share/promptsmith as fallback.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns $XDG_STATE_HOME/promptsmith or ~/.local/state/promptsmith.
// Logs live here.
func StateDir() (string, error) {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, "promptsmith"), nil
}

// Ensure creates dir if needed and returns it.
func Ensure(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
