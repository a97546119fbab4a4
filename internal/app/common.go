package app

import (
	"fmt"
	"os"

	"github.com/falcucci/hyper-jump/internal/config"
	"github.com/falcucci/hyper-jump/internal/github"
	"github.com/falcucci/hyper-jump/internal/history"
	"github.com/falcucci/hyper-jump/internal/installer"
	"github.com/falcucci/hyper-jump/internal/output"
	"github.com/falcucci/hyper-jump/internal/store"
)

// env bundles the wired-up components every subcommand needs.
type env struct {
	cfg   *config.Config
	paths config.Paths
	store *store.Store
}

// loadEnv loads configuration, applies global flags, and prepares the root
// directory layout.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if rootDirFlag != "" {
		cfg.RootDir = rootDirFlag
	}
	if noColorFlag || cfg.NoColor {
		output.Plain()
	}

	paths := config.ResolvePaths(cfg)
	if err := config.EnsureDirectories(paths); err != nil {
		return nil, err
	}

	return &env{
		cfg:   cfg,
		paths: paths,
		store: store.New(paths.Root),
	}, nil
}

// releases returns a GitHub client honoring the configured token.
func (e *env) releases() *github.Client {
	return github.NewClient(e.cfg.GitHubToken)
}

// installer returns the install pipeline for the current platform.
func (e *env) installer() *installer.Installer {
	return installer.New(e.releases(), e.store)
}

// journal opens the event journal. The journal is best-effort: on failure
// the caller gets nil and operations proceed without history.
func (e *env) journal() *history.Journal {
	j, err := history.Open(e.paths.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return nil
	}
	return j
}

// record appends a journal event, tolerating a nil or broken journal.
func record(j *history.Journal, pkg, version, action string) {
	if j == nil {
		return
	}
	if err := j.Record(pkg, version, action); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history not recorded: %v\n", err)
	}
}
