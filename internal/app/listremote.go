package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/falcucci/hyper-jump/internal/catalog"
	"github.com/falcucci/hyper-jump/internal/output"
)

var listRemoteFlagLimit int

var listRemoteCmd = &cobra.Command{
	Use:   "list-remote <package>",
	Short: "Show versions available upstream",
	Long: `List-remote fetches the package's published releases and marks the ones
already present locally. The active version shows green, installed
versions yellow, prereleases dim.

Examples:
  hyper-jump list-remote cardano-node
  hyper-jump list-remote aiken --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runListRemote,
}

func init() {
	listRemoteCmd.Flags().IntVar(&listRemoteFlagLimit, "limit", 30, "maximum number of releases to show (0 for all)")
	RootCmd.AddCommand(listRemoteCmd)
}

func runListRemote(cmd *cobra.Command, args []string) error {
	alias := args[0]

	def, err := catalog.Lookup(alias)
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	spinner := output.NewSpinner(fmt.Sprintf("Fetching releases for %s", def.Repository()))
	spinner.Start()
	releases, err := e.releases().ListReleases(cmd.Context(), def.Owner, def.Repo)
	spinner.Stop()
	if err != nil {
		return err
	}

	installed := map[string]bool{}
	if versions, err := e.store.ListInstalled(alias); err == nil {
		for _, v := range versions {
			installed[v.Version] = true
		}
	}
	active, _, _ := e.store.ActiveVersion(alias)

	rows := make([]output.RemoteVersion, 0, len(releases))
	for _, rel := range releases {
		if listRemoteFlagLimit > 0 && len(rows) >= listRemoteFlagLimit {
			break
		}
		rows = append(rows, output.RemoteVersion{
			Tag:        rel.TagName,
			Published:  rel.PublishedAt,
			Prerelease: rel.Prerelease,
			Installed:  installed[rel.TagName],
			Active:     rel.TagName == active,
		})
	}

	fmt.Print(output.RenderRemoteList(rows))
	return nil
}
