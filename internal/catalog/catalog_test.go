package catalog

import (
	"errors"
	"strings"
	"testing"
)

// TestLookup_KnownAlias verifies that every published alias resolves to a
// definition whose alias field matches the lookup key.
func TestLookup_KnownAlias(t *testing.T) {
	for _, alias := range Aliases() {
		def, err := Lookup(alias)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", alias, err)
		}
		if def.Alias != alias {
			t.Errorf("Lookup(%q).Alias = %q; want %q", alias, def.Alias, alias)
		}
		if def.Owner == "" || def.Repo == "" {
			t.Errorf("Lookup(%q) has empty repository identifier", alias)
		}
		if def.ExecPath == "" {
			t.Errorf("Lookup(%q) has empty ExecPath", alias)
		}
	}
}

// TestLookup_UnknownAlias verifies the sentinel error for unsupported aliases.
func TestLookup_UnknownAlias(t *testing.T) {
	_, err := Lookup("not-a-package")
	if !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("Lookup error = %v; want errors.Is(err, ErrUnknownPackage)", err)
	}
}

// TestAssetName_VersionPlaceholder verifies {version} strips a leading "v"
// while {tag} keeps the tag verbatim.
func TestAssetName_VersionPlaceholder(t *testing.T) {
	def, err := Lookup("cardano-node")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	name, ok := def.AssetName("8.9.2", Platform{OS: "linux", Arch: "amd64"})
	if !ok {
		t.Fatal("AssetName returned no asset for linux/amd64")
	}
	if name != "cardano-node-8.9.2-linux.tar.gz" {
		t.Errorf("AssetName = %q; want cardano-node-8.9.2-linux.tar.gz", name)
	}

	name, ok = def.AssetName("v8.9.2", Platform{OS: "linux", Arch: "amd64"})
	if !ok {
		t.Fatal("AssetName returned no asset for linux/amd64")
	}
	if name != "cardano-node-8.9.2-linux.tar.gz" {
		t.Errorf("AssetName with v-prefixed tag = %q; want leading v stripped", name)
	}

	reth, err := Lookup("reth")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	name, ok = reth.AssetName("v1.1.4", Platform{OS: "linux", Arch: "amd64"})
	if !ok {
		t.Fatal("AssetName returned no asset for linux/amd64")
	}
	if !strings.Contains(name, "v1.1.4") {
		t.Errorf("AssetName = %q; want verbatim tag via {tag}", name)
	}
}

// TestAssetName_UnsupportedPlatform verifies the missing-template case.
func TestAssetName_UnsupportedPlatform(t *testing.T) {
	def, err := Lookup("scrolls")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if _, ok := def.AssetName("v1.0.0", Platform{OS: "plan9", Arch: "mips"}); ok {
		t.Error("AssetName should report no asset for an unlisted platform")
	}
}

// TestIsAlias covers both dispatch outcomes of the argv[0] check.
func TestIsAlias(t *testing.T) {
	if !IsAlias("cardano-node") {
		t.Error(`IsAlias("cardano-node") = false; want true`)
	}
	if IsAlias("hyper-jump") {
		t.Error(`IsAlias("hyper-jump") = true; the front-end name must not be an alias`)
	}
}

// TestNormalizeArch checks the alternate-spelling folds.
func TestNormalizeArch(t *testing.T) {
	cases := map[string]string{
		"x86_64":  "amd64",
		"aarch64": "arm64",
		"x86":     "386",
		"amd64":   "amd64",
		"riscv64": "riscv64",
	}
	for in, want := range cases {
		if got := normalizeArch(in); got != want {
			t.Errorf("normalizeArch(%q) = %q; want %q", in, got, want)
		}
	}
}
