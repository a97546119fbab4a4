package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/falcucci/hyper-jump/internal/history"
	"github.com/falcucci/hyper-jump/internal/shim"
)

var eraseFlagYes bool

var eraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "Remove everything hyper-jump manages",
	Long: `Erase deletes the whole hyper-jump root: every installed version of
every package, the proxy shims, and the history journal. The
configuration file is left in place.

This cannot be undone, so erase asks for confirmation unless --yes
is given.

Examples:
  hyper-jump erase
  hyper-jump erase --yes`,
	Args: cobra.NoArgs,
	RunE: runErase,
}

func init() {
	eraseCmd.Flags().BoolVar(&eraseFlagYes, "yes", false, "skip the confirmation prompt")
	RootCmd.AddCommand(eraseCmd)
}

func runErase(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	if !eraseFlagYes {
		fmt.Printf("This removes every installed version under %s.\n", e.paths.Root)
		fmt.Print("Type \"yes\" to confirm (or press Enter to cancel): ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil || strings.TrimSpace(response) != "yes" {
			fmt.Println("Erase cancelled.")
			return nil
		}
	}

	// Record before deleting; the journal lives inside the root.
	if j := e.journal(); j != nil {
		record(j, "*", "*", history.ActionErase)
		j.Close()
	}

	if err := shim.RemoveAll(e.paths.Bin); err != nil {
		return err
	}
	if err := e.store.EraseAll(); err != nil {
		return err
	}

	fmt.Printf("✓ Erased %s\n", e.paths.Root)
	return nil
}
