package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/falcucci/hyper-jump/internal/catalog"
	"github.com/falcucci/hyper-jump/internal/proxy"
	"github.com/falcucci/hyper-jump/internal/store"
)

var prefixCmd = &cobra.Command{
	Use:   "prefix <package> [version]",
	Short: "Print the install directory of a version",
	Long: `Prefix prints the on-disk directory of the package's active version, or
of an explicit version when given. Useful for scripting:

  export CARDANO_NODE_HOME="$(hyper-jump prefix cardano-node)"

Examples:
  hyper-jump prefix cardano-node
  hyper-jump prefix cardano-node 10.1.4`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPrefix,
}

func init() {
	RootCmd.AddCommand(prefixCmd)
}

func runPrefix(cmd *cobra.Command, args []string) error {
	alias := args[0]

	if _, err := catalog.Lookup(alias); err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	ver := ""
	if len(args) == 2 {
		ver = args[1]
	} else {
		active, ok, err := e.store.ActiveVersion(alias)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w for %s; run `hyper-jump use %s <version>`", proxy.ErrNoActiveVersion, alias, alias)
		}
		ver = active
	}

	installed, err := e.store.ListInstalled(alias)
	if err != nil {
		return err
	}
	for _, v := range installed {
		if v.Version == ver {
			fmt.Println(v.Path)
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s", store.ErrVersionNotInstalled, alias, ver)
}
