// Package config provides configuration loading for hyper-jump. Settings
// come from an optional TOML file with environment variables taking
// precedence, so scripted use never has to touch the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Environment overrides. Each one beats the corresponding file setting.
const (
	envRootDir     = "HYPER_JUMP_ROOT_DIR"
	envGitHubToken = "GITHUB_TOKEN"
	envNoColor     = "NO_COLOR"
)

// Config holds the user-tunable settings.
type Config struct {
	// RootDir is where versions, shims and the journal live.
	// Defaults to ~/.local/share/hyper-jump.
	RootDir string `toml:"root_dir"`

	// GitHubToken authenticates release listing to raise the API rate
	// limit. Anonymous access works, just with a lower ceiling.
	GitHubToken string `toml:"github_token"`

	// NoColor disables ANSI output unconditionally.
	NoColor bool `toml:"no_color"`
}

// Dir returns the hyper-jump config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/hyper-jump if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "hyper-jump"), nil
}

// Load reads the config file (if present) and applies environment
// overrides and defaults. A missing file is the normal zero-config case.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return loadFrom(filepath.Join(dir, "config.toml"))
}

func loadFrom(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Zero config is fully supported.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if v := os.Getenv(envRootDir); v != "" {
		cfg.RootDir = v
	}
	if v := os.Getenv(envGitHubToken); v != "" {
		cfg.GitHubToken = v
	}
	if _, ok := os.LookupEnv(envNoColor); ok {
		cfg.NoColor = true
	}

	if cfg.RootDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.RootDir = filepath.Join(home, ".local", "share", "hyper-jump")
	} else if expanded, err := homedir.Expand(cfg.RootDir); err == nil {
		cfg.RootDir = expanded
	}

	return &cfg, nil
}

// Paths derives the concrete locations inside the root directory.
type Paths struct {
	// Root is the store root holding one subdirectory per package.
	Root string
	// Bin holds the proxy shims and should be on the user's PATH.
	Bin string
	// DB is the event journal database file.
	DB string
}

// ResolvePaths maps a config onto the on-disk layout.
func ResolvePaths(cfg *Config) Paths {
	return Paths{
		Root: cfg.RootDir,
		Bin:  filepath.Join(cfg.RootDir, "bin"),
		DB:   filepath.Join(cfg.RootDir, "history.db"),
	}
}

// EnsureDirectories creates the root and bin directories.
func EnsureDirectories(p Paths) error {
	for _, dir := range []string{p.Root, p.Bin} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
