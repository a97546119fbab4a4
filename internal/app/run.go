package app

import (
	"github.com/spf13/cobra"

	"github.com/falcucci/hyper-jump/internal/history"
	"github.com/falcucci/hyper-jump/internal/proxy"
)

var runCmd = &cobra.Command{
	Use:   "run <package> [args...]",
	Short: "Run the active version of a package",
	Long: `Run executes the package's active version with the given arguments.
Standard streams, the environment, and the exit code pass through
unchanged, exactly as the proxy shims do.

Examples:
  hyper-jump run cardano-cli query tip --mainnet
  hyper-jump run aiken -- build --trace`,
	Args: cobra.MinimumNArgs(1),
	// Flags after the package belong to the child, not to hyper-jump.
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE:               runRun,
}

func init() {
	runCmd.Flags().SetInterspersed(false)
	RootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	alias := args[0]
	if active, ok, _ := e.store.ActiveVersion(alias); ok {
		if j := e.journal(); j != nil {
			record(j, alias, active, history.ActionRun)
			j.Close()
		}
	}

	code, err := proxy.New(e.store).Run(alias, args[1:])
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
