// Package catalog holds the compiled-in table of packages hyper-jump can
// manage. Each definition ties a user-facing alias to an upstream GitHub
// repository, the release-asset name expected for each platform, and the
// executable's location inside the extracted archive.
//
// The table is static by design: users never supply repositories or URLs, so
// every download target is fixed at build time. Turning this into a loadable
// configuration source is a known extension point, not a current feature.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPackage is returned when an alias does not name a catalog entry.
var ErrUnknownPackage = errors.New("unknown package")

// Definition describes one supported package.
type Definition struct {
	// Alias is the short name used on the command line and as the
	// store directory name (e.g. "cardano-node").
	Alias string

	// Owner and Repo identify the upstream GitHub repository.
	Owner string
	Repo  string

	// AssetTemplates maps a platform key ("os/arch") to the release-asset
	// filename expected on that platform. Templates may reference
	// {version}, which expands to the release tag with any leading "v"
	// stripped, and {tag}, which expands to the tag verbatim.
	AssetTemplates map[string]string

	// ExecPath is the managed executable's path relative to the root of
	// the extracted version directory (e.g. "bin/cardano-node").
	ExecPath string
}

// AssetName renders the expected asset filename for the given release tag on
// the given platform. The second return is false when the package publishes
// no artifact for that platform.
func (d *Definition) AssetName(tag string, p Platform) (string, bool) {
	tmpl, ok := d.AssetTemplates[p.Key()]
	if !ok {
		return "", false
	}
	name := strings.ReplaceAll(tmpl, "{tag}", tag)
	name = strings.ReplaceAll(name, "{version}", strings.TrimPrefix(tag, "v"))
	return name, true
}

// Repository returns the "owner/repo" form of the upstream repository.
func (d *Definition) Repository() string {
	return d.Owner + "/" + d.Repo
}

// definitions is keyed by alias. Asset names follow each upstream project's
// release conventions; platforms without a published artifact have no entry.
// Only unix platforms are listed: the proxy front end depends on unix
// process and filesystem semantics.
var definitions = map[string]*Definition{
	"cardano-node": {
		Alias: "cardano-node",
		Owner: "IntersectMBO",
		Repo:  "cardano-node",
		AssetTemplates: map[string]string{
			"linux/amd64":  "cardano-node-{version}-linux.tar.gz",
			"darwin/amd64": "cardano-node-{version}-macos.tar.gz",
			"darwin/arm64": "cardano-node-{version}-macos.tar.gz",
		},
		ExecPath: "bin/cardano-node",
	},
	"cardano-cli": {
		Alias: "cardano-cli",
		Owner: "IntersectMBO",
		Repo:  "cardano-node",
		AssetTemplates: map[string]string{
			"linux/amd64":  "cardano-node-{version}-linux.tar.gz",
			"darwin/amd64": "cardano-node-{version}-macos.tar.gz",
			"darwin/arm64": "cardano-node-{version}-macos.tar.gz",
		},
		ExecPath: "bin/cardano-cli",
	},
	"cardano-submit-api": {
		Alias: "cardano-submit-api",
		Owner: "IntersectMBO",
		Repo:  "cardano-node",
		AssetTemplates: map[string]string{
			"linux/amd64":  "cardano-node-{version}-linux.tar.gz",
			"darwin/amd64": "cardano-node-{version}-macos.tar.gz",
			"darwin/arm64": "cardano-node-{version}-macos.tar.gz",
		},
		ExecPath: "bin/cardano-submit-api",
	},
	"mithril-client": {
		Alias: "mithril-client",
		Owner: "input-output-hk",
		Repo:  "mithril",
		AssetTemplates: map[string]string{
			"linux/amd64":  "mithril-{tag}-linux-x64.tar.gz",
			"darwin/amd64": "mithril-{tag}-macos-x64.tar.gz",
			"darwin/arm64": "mithril-{tag}-macos-arm64.tar.gz",
		},
		ExecPath: "mithril-client",
	},
	"aiken": {
		Alias: "aiken",
		Owner: "aiken-lang",
		Repo:  "aiken",
		AssetTemplates: map[string]string{
			"linux/amd64":  "aiken-x86_64-unknown-linux-gnu.tar.gz",
			"linux/arm64":  "aiken-aarch64-unknown-linux-gnu.tar.gz",
			"darwin/amd64": "aiken-x86_64-apple-darwin.tar.gz",
			"darwin/arm64": "aiken-aarch64-apple-darwin.tar.gz",
		},
		ExecPath: "aiken",
	},
	"oura": {
		Alias: "oura",
		Owner: "txpipe",
		Repo:  "oura",
		AssetTemplates: map[string]string{
			"linux/amd64":  "oura-x86_64-unknown-linux-gnu.tar.gz",
			"darwin/amd64": "oura-x86_64-apple-darwin.tar.gz",
			"darwin/arm64": "oura-aarch64-apple-darwin.tar.gz",
		},
		ExecPath: "oura",
	},
	"dolos": {
		Alias: "dolos",
		Owner: "txpipe",
		Repo:  "dolos",
		AssetTemplates: map[string]string{
			"linux/amd64":  "dolos-x86_64-unknown-linux-gnu.tar.gz",
			"darwin/amd64": "dolos-x86_64-apple-darwin.tar.gz",
			"darwin/arm64": "dolos-aarch64-apple-darwin.tar.gz",
		},
		ExecPath: "dolos",
	},
	"scrolls": {
		Alias: "scrolls",
		Owner: "txpipe",
		Repo:  "scrolls",
		AssetTemplates: map[string]string{
			"linux/amd64":  "scrolls-x86_64-unknown-linux-gnu.tar.gz",
			"darwin/amd64": "scrolls-x86_64-apple-darwin.tar.gz",
		},
		ExecPath: "scrolls",
	},
	"zellij": {
		Alias: "zellij",
		Owner: "zellij-org",
		Repo:  "zellij",
		AssetTemplates: map[string]string{
			"linux/amd64":  "zellij-x86_64-unknown-linux-musl.tar.gz",
			"linux/arm64":  "zellij-aarch64-unknown-linux-musl.tar.gz",
			"darwin/amd64": "zellij-x86_64-apple-darwin.tar.gz",
			"darwin/arm64": "zellij-aarch64-apple-darwin.tar.gz",
		},
		ExecPath: "zellij",
	},
	"reth": {
		Alias: "reth",
		Owner: "paradigmxyz",
		Repo:  "reth",
		AssetTemplates: map[string]string{
			"linux/amd64":  "reth-{tag}-x86_64-unknown-linux-gnu.tar.gz",
			"linux/arm64":  "reth-{tag}-aarch64-unknown-linux-gnu.tar.gz",
			"darwin/amd64": "reth-{tag}-x86_64-apple-darwin.tar.gz",
			"darwin/arm64": "reth-{tag}-aarch64-apple-darwin.tar.gz",
		},
		ExecPath: "reth",
	},
}

// Lookup resolves an alias to its package definition.
func Lookup(alias string) (*Definition, error) {
	def, ok := definitions[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, alias)
	}
	return def, nil
}

// IsAlias reports whether name is a catalog alias. Used by the front-end
// binary to decide between proxy dispatch and CLI mode.
func IsAlias(name string) bool {
	_, ok := definitions[name]
	return ok
}

// Aliases returns every supported alias in sorted order.
func Aliases() []string {
	out := make([]string, 0, len(definitions))
	for alias := range definitions {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}
