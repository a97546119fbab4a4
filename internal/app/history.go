package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/falcucci/hyper-jump/internal/history"
	"github.com/falcucci/hyper-jump/internal/output"
)

var historyFlagLimit int

var historyCmd = &cobra.Command{
	Use:   "history [package]",
	Short: "Show recent installs, switches and removals",
	Long: `History prints the event journal, newest first. With a package argument
only that package's events are shown.

Examples:
  hyper-jump history
  hyper-jump history cardano-node --limit 50`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyFlagLimit, "limit", 20, "maximum number of events to show")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	pkg := ""
	if len(args) == 1 {
		pkg = args[0]
	}

	j, err := history.Open(e.paths.DB)
	if err != nil {
		return err
	}
	defer j.Close()

	events, err := j.Recent(pkg, historyFlagLimit)
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, output.RenderHistoryTable(events))
	return nil
}
