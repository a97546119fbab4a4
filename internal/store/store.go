// Package store owns the on-disk layout of installed versions:
//
//	<root>/<alias>/<version>/...   one directory per installed version
//	<root>/<alias>/used            active-version marker file
//
// The layout is the durable source of truth and the synchronization
// primitive: a version directory appears only via a rename of a fully
// populated tree, and the marker changes only via a rename of a fully
// written temp file. A concurrent reader therefore sees either the old or
// the new state, never an intermediate one. This layout is a compatibility
// surface — it must stay stable across releases of the tool.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// markerName is the per-package active-version marker file. It lives
	// beside the version directories, so the name is reserved.
	markerName = "used"

	// scratchName is the staging area for downloads and extractions. It
	// sits under the root so a finished tree moves into place with a
	// same-filesystem rename.
	scratchName = ".scratch"
)

var (
	// ErrAlreadyInstalled: the (package, version) pair exists. Installing
	// over it is never an implicit overwrite; uninstall first.
	ErrAlreadyInstalled = errors.New("version already installed")

	// ErrVersionNotInstalled: the named version has no directory here.
	ErrVersionNotInstalled = errors.New("version not installed")

	// ErrCannotUninstallActive: removing the active version would leave
	// the proxy dangling; switch or deactivate first.
	ErrCannotUninstallActive = errors.New("cannot uninstall the active version")

	// ErrInvalidVersion: the version token is not filesystem-safe.
	ErrInvalidVersion = errors.New("invalid version string")
)

// InstalledVersion is one row of the local inventory.
type InstalledVersion struct {
	Package     string
	Version     string
	Path        string
	Active      bool
	InstalledAt time.Time
}

// Store is a handle on the version store rooted at a directory. The root is
// created lazily on first mutating access.
type Store struct {
	root string
}

// New returns a store handle for root. No filesystem access happens here.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// packageDir is <root>/<alias>.
func (s *Store) packageDir(alias string) string {
	return filepath.Join(s.root, alias)
}

// VersionDir is <root>/<alias>/<version>. The version must already have been
// validated by the caller or by the operation using it.
func (s *Store) VersionDir(alias, version string) string {
	return filepath.Join(s.packageDir(alias), version)
}

// validVersion rejects tokens that cannot safely become a directory name.
func validVersion(version string) error {
	switch {
	case version == "",
		version == markerName,
		version == "." || version == "..",
		strings.HasPrefix(version, "."),
		strings.ContainsAny(version, `/\`):
		return fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return nil
}

// ScratchDir creates and returns a fresh staging directory under the store
// root. Staging under the root keeps the final rename on one filesystem.
func (s *Store) ScratchDir(pattern string) (string, error) {
	base := filepath.Join(s.root, scratchName)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("create scratch area: %w", err)
	}
	dir, err := os.MkdirTemp(base, pattern)
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	return dir, nil
}

// Install moves the fully populated sourceDir into the store as the given
// package version. The move is a single rename: concurrent readers never see
// a partially populated version directory. sourceDir must live on the same
// filesystem as the store (use ScratchDir).
func (s *Store) Install(alias, version, sourceDir string) (InstalledVersion, error) {
	if err := validVersion(version); err != nil {
		return InstalledVersion{}, err
	}

	if err := os.MkdirAll(s.packageDir(alias), 0o755); err != nil {
		return InstalledVersion{}, fmt.Errorf("create package dir: %w", err)
	}

	target := s.VersionDir(alias, version)
	if _, err := os.Lstat(target); err == nil {
		return InstalledVersion{}, fmt.Errorf("%w: %s %s", ErrAlreadyInstalled, alias, version)
	} else if !os.IsNotExist(err) {
		return InstalledVersion{}, fmt.Errorf("stat version dir: %w", err)
	}

	if err := os.Rename(sourceDir, target); err != nil {
		return InstalledVersion{}, fmt.Errorf("move version into store: %w", err)
	}

	return InstalledVersion{
		Package:     alias,
		Version:     version,
		Path:        target,
		InstalledAt: time.Now(),
	}, nil
}

// Activate repoints the package's active marker at an installed version.
// The marker is written to a temp file and renamed into place, so a racing
// proxy reads either the previous or the new version — never an empty or
// half-written marker.
func (s *Store) Activate(alias, version string) error {
	if err := validVersion(version); err != nil {
		return err
	}

	if _, err := os.Stat(s.VersionDir(alias, version)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s %s", ErrVersionNotInstalled, alias, version)
		}
		return fmt.Errorf("stat version dir: %w", err)
	}

	marker := filepath.Join(s.packageDir(alias), markerName)
	tmp, err := os.CreateTemp(s.packageDir(alias), ".used-*")
	if err != nil {
		return fmt.Errorf("create marker temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(version); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close marker: %w", err)
	}
	if err := os.Rename(tmpName, marker); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("swap marker: %w", err)
	}
	return nil
}

// Uninstall removes an installed version directory. The active version is
// protected: deactivate or activate another version first.
func (s *Store) Uninstall(alias, version string) error {
	if err := validVersion(version); err != nil {
		return err
	}

	target := s.VersionDir(alias, version)
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s %s", ErrVersionNotInstalled, alias, version)
		}
		return fmt.Errorf("stat version dir: %w", err)
	}

	if active, ok, err := s.ActiveVersion(alias); err != nil {
		return err
	} else if ok && active == version {
		return fmt.Errorf("%w: %s %s", ErrCannotUninstallActive, alias, version)
	}

	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("remove version dir: %w", err)
	}
	return nil
}

// Deactivate clears the package's active marker. Missing marker is a no-op.
func (s *Store) Deactivate(alias string) error {
	err := os.Remove(filepath.Join(s.packageDir(alias), markerName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove marker: %w", err)
	}
	return nil
}

// ListInstalled reads the on-disk inventory for one package at call time.
// A missing package directory is an empty inventory, not an error.
func (s *Store) ListInstalled(alias string) ([]InstalledVersion, error) {
	entries, err := os.ReadDir(s.packageDir(alias))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read package dir: %w", err)
	}

	active, hasActive, err := s.ActiveVersion(alias)
	if err != nil {
		return nil, err
	}

	var out []InstalledVersion
	for _, entry := range entries {
		// The marker file and any stray dotfiles are not versions.
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		iv := InstalledVersion{
			Package: alias,
			Version: entry.Name(),
			Path:    s.VersionDir(alias, entry.Name()),
			Active:  hasActive && entry.Name() == active,
		}
		if info, err := entry.Info(); err == nil {
			iv.InstalledAt = info.ModTime()
		}
		out = append(out, iv)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// ActiveVersion reads the package's marker. Absence is a normal state (no
// version activated yet), reported via the bool, not an error.
func (s *Store) ActiveVersion(alias string) (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.packageDir(alias), markerName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read marker: %w", err)
	}
	version := strings.TrimSpace(string(data))
	if version == "" {
		return "", false, nil
	}
	return version, true, nil
}

// EraseAll removes the entire store subtree. Irreversible; confirmation is
// the CLI's business, not this layer's.
func (s *Store) EraseAll() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("erase store: %w", err)
	}
	return nil
}
