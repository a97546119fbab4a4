package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rootDirFlag string
	noColorFlag bool

	// RootCmd is the root command for hyper-jump
	RootCmd = &cobra.Command{
		Use:   "hyper-jump",
		Short: "Version manager and command proxy for Cardano ecosystem tools",
		Long: `hyper-jump installs published releases of blockchain tools side by side,
switches the active version per package, and transparently proxies
invocations to whichever version is active.

Each managed package keeps every installed version under the hyper-jump
root; activating a version never touches the others, so switching back
is instant and offline.

Quick Start:
  1. hyper-jump install cardano-node --use
  2. export PATH="$HOME/.local/share/hyper-jump/bin:$PATH"
  3. cardano-node run ...

Examples:
  # Install the newest cardano-node release and make it active
  hyper-jump install cardano-node --use

  # Install a specific version without activating it
  hyper-jump install cardano-cli 10.1.1.0

  # Switch the active version
  hyper-jump use cardano-node 10.2.1

  # See what is installed locally
  hyper-jump list cardano-node

  # See what upstream offers
  hyper-jump list-remote aiken`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("hyper-jump: version manager and command proxy for Cardano ecosystem tools")
			fmt.Println()
			fmt.Println("Run 'hyper-jump install <package> --use' to get started.")
			fmt.Println("Run 'hyper-jump --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&rootDirFlag, "root", "", "hyper-jump root directory (default: ~/.local/share/hyper-jump)")
	RootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
