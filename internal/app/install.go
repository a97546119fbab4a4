package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/falcucci/hyper-jump/internal/history"
	"github.com/falcucci/hyper-jump/internal/installer"
	"github.com/falcucci/hyper-jump/internal/output"
	"github.com/falcucci/hyper-jump/internal/shim"
	"github.com/falcucci/hyper-jump/internal/version"
)

var installFlagUse bool

var installCmd = &cobra.Command{
	Use:   "install <package> [version]",
	Short: "Install a package version from its upstream releases",
	Long: `Install downloads a published release of a managed package and adds it
to the local store. Other installed versions are untouched.

The version argument accepts:
  latest          the newest stable release (default)
  10.2.1          an exact release tag, matched verbatim
  ^10.2           a semantic version range

Examples:
  # Newest release of cardano-node, activated immediately
  hyper-jump install cardano-node --use

  # Exact version, stored but not activated
  hyper-jump install cardano-cli 10.1.1.0

  # Newest release in a range
  hyper-jump install aiken "^1.0"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installFlagUse, "use", false, "activate the version after installing")
	RootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	alias := args[0]
	token := version.Latest
	if len(args) == 2 {
		token = args[1]
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	spinner := output.NewSpinner(fmt.Sprintf("Resolving %s %s", alias, token))
	spinner.Start()

	var bar *output.ByteProgress
	res, err := e.installer().Install(cmd.Context(), alias, token, installer.Options{
		Activate: installFlagUse,
		Progress: func(received, total int64) {
			if bar == nil {
				spinner.Stop()
				bar = output.NewByteProgress(total, alias)
			}
			bar.Update(received)
		},
	})
	spinner.Stop()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	j := e.journal()
	if j != nil {
		defer j.Close()
	}

	if res.AlreadyInstalled {
		fmt.Printf("%s %s is already installed.\n", res.Package, res.Version)
	} else {
		record(j, res.Package, res.Version, history.ActionInstall)
		fmt.Printf("✓ Installed %s %s\n", res.Package, res.Version)
	}

	if res.Activated {
		record(j, res.Package, res.Version, history.ActionActivate)
		if err := shim.Ensure(e.paths.Bin, alias); err != nil {
			return err
		}
		fmt.Printf("✓ %s now points at %s\n", alias, res.Version)
		if ok, hint := shim.OnPath(e.paths.Bin); !ok {
			fmt.Println(hint)
		}
	} else {
		fmt.Printf("Activate it with: hyper-jump use %s %s\n", alias, res.Version)
	}
	return nil
}
