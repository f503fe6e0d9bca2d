// Package paths resolves asset locations relative to the executable, so the engine finds its shaders no
// matter which working directory it is launched from.
package paths

import (
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory holding the running executable, with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// Resolve turns a path relative to the executable directory into an absolute one. Absolute inputs are
// returned unchanged. If the executable directory cannot be determined, or the resolved path does not
// exist while the working-directory relative one does, the input is returned as-is so `go run` style
// invocations keep working.
func Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	dir, err := ExecutableDir()
	if err != nil {
		return rel
	}
	resolved := filepath.Join(dir, rel)
	if _, err := os.Stat(resolved); err != nil {
		if _, cwdErr := os.Stat(rel); cwdErr == nil {
			return rel
		}
	}
	return resolved
}
