package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/falcucci/hyper-jump/internal/history"
	"github.com/falcucci/hyper-jump/internal/installer"
	"github.com/falcucci/hyper-jump/internal/shim"
	"github.com/falcucci/hyper-jump/internal/version"
)

var useCmd = &cobra.Command{
	Use:   "use <package> [version]",
	Short: "Switch the active version of a package",
	Long: `Use repoints the package's proxy at an installed version. When the
requested version is not installed yet it is installed first, so
"use" is always safe to run against a fresh machine.

An exact tag that is already installed activates offline, without
touching the network.

Examples:
  # Activate an installed version
  hyper-jump use cardano-node 10.2.1

  # Jump to the newest release, installing it if needed
  hyper-jump use aiken latest`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUse,
}

func init() {
	RootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	alias := args[0]
	token := version.Latest
	if len(args) == 2 {
		token = args[1]
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	j := e.journal()
	if j != nil {
		defer j.Close()
	}

	// An exact installed tag activates without any network traffic.
	if installed, err := e.store.ListInstalled(alias); err == nil {
		for _, v := range installed {
			if v.Version == token {
				if err := e.store.Activate(alias, token); err != nil {
					return err
				}
				record(j, alias, token, history.ActionActivate)
				if err := shim.Ensure(e.paths.Bin, alias); err != nil {
					return err
				}
				fmt.Printf("✓ %s now points at %s\n", alias, token)
				return nil
			}
		}
	}

	res, err := e.installer().Install(cmd.Context(), alias, token, installer.Options{Activate: true})
	if err != nil {
		return err
	}
	if !res.AlreadyInstalled {
		record(j, res.Package, res.Version, history.ActionInstall)
	}
	record(j, res.Package, res.Version, history.ActionActivate)

	if err := shim.Ensure(e.paths.Bin, alias); err != nil {
		return err
	}
	fmt.Printf("✓ %s now points at %s\n", alias, res.Version)
	if ok, hint := shim.OnPath(e.paths.Bin); !ok {
		fmt.Println(hint)
	}
	return nil
}
