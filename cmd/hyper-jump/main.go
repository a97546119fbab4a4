// Command hyper-jump is both the management CLI and the command proxy.
//
// Invoked as "hyper-jump" it runs the cobra CLI. Invoked through a shim
// symlink named after a managed package (e.g. ~/.local/share/hyper-jump/bin/
// cardano-node -> hyper-jump) it dispatches straight to the active version
// of that package, passing streams, arguments, environment, signals and the
// exit code through unchanged.
//
// The one exception on the proxy path is the --hyper-jump flag as the sole
// argument, which identifies the shim instead of invoking the tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/falcucci/hyper-jump/internal/app"
	"github.com/falcucci/hyper-jump/internal/catalog"
	"github.com/falcucci/hyper-jump/internal/config"
	"github.com/falcucci/hyper-jump/internal/history"
	"github.com/falcucci/hyper-jump/internal/proxy"
	"github.com/falcucci/hyper-jump/internal/store"
)

func main() {
	invoked := strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")

	if catalog.IsAlias(invoked) {
		os.Exit(runProxy(invoked, os.Args[1:]))
	}

	if err := app.Execute(); err != nil {
		if code := app.ExitCode(err); code != 0 {
			// ExitError is a bare status from a proxied child; the child
			// already wrote its own diagnostics.
			if _, isExit := err.(*app.ExitError); !isExit {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(code)
		}
	}
}

// runProxy handles a shim invocation and returns the process exit code.
func runProxy(alias string, args []string) int {
	if len(args) == 1 && args[0] == "--hyper-jump" {
		fmt.Printf("%s is proxied by hyper-jump\n", alias)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hyper-jump: %v\n", err)
		return app.ExitFailure
	}

	paths := config.ResolvePaths(cfg)
	st := store.New(paths.Root)
	logRun(paths.DB, st, alias)

	code, err := proxy.New(st).Run(alias, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hyper-jump: %v\n", err)
		return app.ExitCode(err)
	}
	return code
}

// logRun journals a proxied invocation. Best-effort: any failure is silent
// so the user's command always proceeds.
func logRun(dbPath string, st *store.Store, alias string) {
	active, ok, err := st.ActiveVersion(alias)
	if err != nil || !ok {
		return
	}
	j, err := history.Open(dbPath)
	if err != nil {
		return
	}
	defer j.Close()
	j.Record(alias, active, history.ActionRun)
}
