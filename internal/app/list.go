package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/falcucci/hyper-jump/internal/catalog"
	"github.com/falcucci/hyper-jump/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list [package]",
	Short: "Show installed versions",
	Long: `List shows the local inventory. With a package argument it lists that
package's installed versions; without one it walks every managed
package that has at least one version installed.

Examples:
  hyper-jump list cardano-node
  hyper-jump list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		alias := args[0]
		if _, err := catalog.Lookup(alias); err != nil {
			return err
		}
		versions, err := e.store.ListInstalled(alias)
		if err != nil {
			return err
		}
		fmt.Print(output.RenderInstalledTable(versions))
		return nil
	}

	any := false
	for _, alias := range catalog.Aliases() {
		versions, err := e.store.ListInstalled(alias)
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			continue
		}
		any = true
		fmt.Printf("%s\n", alias)
		fmt.Print(output.RenderInstalledTable(versions))
		fmt.Println()
	}
	if !any {
		fmt.Println("No packages installed. Try: hyper-jump install cardano-node --use")
	}
	return nil
}
