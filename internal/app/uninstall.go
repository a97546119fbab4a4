package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/falcucci/hyper-jump/internal/history"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <package> <version>",
	Short: "Remove an installed version of a package",
	Long: `Uninstall deletes one installed version from the local store. The
active version is protected; switch with "hyper-jump use" first.

Examples:
  hyper-jump uninstall cardano-node 10.1.4`,
	Args: cobra.ExactArgs(2),
	RunE: runUninstall,
}

func init() {
	RootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	alias, ver := args[0], args[1]

	e, err := loadEnv()
	if err != nil {
		return err
	}

	if err := e.store.Uninstall(alias, ver); err != nil {
		return err
	}

	j := e.journal()
	if j != nil {
		defer j.Close()
	}
	record(j, alias, ver, history.ActionUninstall)

	fmt.Printf("✓ Uninstalled %s %s\n", alias, ver)
	return nil
}
