// Package shim manages the PATH shim layer that turns package aliases into
// proxied commands.
//
// Architecture:
//   - The hyper-jump binary itself is the proxy; no separate shim binary.
//   - Each managed alias gets a symlink in the bin directory pointing at the
//     hyper-jump executable.
//   - The binary decides which alias was invoked via filepath.Base(os.Args[0])
//     and execs the active version of that package.
package shim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ensure creates or repairs the symlink <binDir>/<alias> so it points at the
// running hyper-jump executable. Stale links and plain files in the way are
// replaced.
func Ensure(binDir, alias string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate own executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(self); err == nil {
		self = resolved
	}

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("create bin dir %s: %w", binDir, err)
	}

	link := filepath.Join(binDir, alias)
	if existing, err := os.Readlink(link); err == nil && existing == self {
		return nil
	}

	// Remove a stale symlink or a regular file squatting on the name.
	os.Remove(link)

	if err := os.Symlink(self, link); err != nil {
		return fmt.Errorf("create shim for %s: %w", alias, err)
	}
	return nil
}

// Remove deletes the alias's shim symlink. Absence is not an error.
func Remove(binDir, alias string) error {
	err := os.Remove(filepath.Join(binDir, alias))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove shim for %s: %w", alias, err)
	}
	return nil
}

// RemoveAll deletes every symlink in the bin directory. Regular files are
// left alone.
func RemoveAll(binDir string) error {
	entries, err := os.ReadDir(binDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read bin dir %s: %w", binDir, err)
	}

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			os.Remove(filepath.Join(binDir, entry.Name()))
		}
	}
	return nil
}

// OnPath reports whether the bin directory appears in PATH. Returns
// (true, "") when it does, or (false, hint) with the export line the user
// should add to their shell profile.
func OnPath(binDir string) (bool, string) {
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == binDir || strings.TrimSuffix(dir, string(os.PathSeparator)) == binDir {
			return true, ""
		}
	}
	return false, fmt.Sprintf("add the shim directory to PATH:\n  export PATH=%q:$PATH", binDir)
}
