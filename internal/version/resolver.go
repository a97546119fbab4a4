// Package version turns a user-supplied version token into exactly one
// release from a remote catalog, and picks the platform asset for it.
//
// Token grammar: the literal "latest" selects the maximum release by the
// ordering below; any token matching a release tag verbatim selects that
// release; otherwise the token is parsed as a semver range constraint and the
// maximum satisfying release wins.
//
// Release ordering is total so "latest" is deterministic for any catalog
// order: semver-tagged releases outrank timestamped ones, which outrank the
// rest; within a class the parsed version, the publish time, or a byte-wise
// tag comparison decides. Equal releases keep their catalog order.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/falcucci/hyper-jump/internal/catalog"
	"github.com/falcucci/hyper-jump/internal/github"
)

var (
	// ErrVersionNotFound means the token named no release: it matched no
	// tag and did not parse as a range expression.
	ErrVersionNotFound = errors.New("version not found")

	// ErrNoMatchingVersion means the token parsed as a range but no
	// semver-tagged release satisfies it.
	ErrNoMatchingVersion = errors.New("no version matches constraint")

	// ErrUnsupportedPlatform means the selected release exists remotely
	// but publishes no asset for the current platform.
	ErrUnsupportedPlatform = errors.New("no asset for this platform")

	// ErrEmptyCatalog means the remote catalog returned no releases at all.
	ErrEmptyCatalog = errors.New("no releases available")
)

// Latest is the token selecting the maximum release.
const Latest = "latest"

// Resolve picks exactly one release for token out of releases. Prereleases
// are skipped for "latest" and for range constraints but remain reachable by
// exact tag.
func Resolve(token string, releases []github.Release) (*github.Release, error) {
	if len(releases) == 0 {
		return nil, ErrEmptyCatalog
	}

	if token == Latest {
		return maxRelease(releases, func(r *github.Release) bool {
			return !r.Prerelease
		})
	}

	// Verbatim tag match wins over constraint interpretation, so an exact
	// tag like "1.2.0" is never reinterpreted as a range.
	for i := range releases {
		if releases[i].TagName == token {
			return &releases[i], nil
		}
	}

	constraint, err := semver.NewConstraint(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrVersionNotFound, token)
	}

	selected, err := maxRelease(releases, func(r *github.Release) bool {
		if r.Prerelease {
			return false
		}
		v := parseTag(r.TagName)
		return v != nil && constraint.Check(v)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoMatchingVersion, token)
	}
	return selected, nil
}

// SelectAsset locates the platform asset for rel per the package's naming
// rule. The release existing without a usable artifact here is a distinct
// failure from the version being absent.
func SelectAsset(def *catalog.Definition, rel *github.Release, p catalog.Platform) (*github.Asset, error) {
	wanted, ok := def.AssetName(rel.TagName, p)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s on %s", ErrUnsupportedPlatform, def.Alias, rel.TagName, p)
	}
	for i := range rel.Assets {
		if rel.Assets[i].Name == wanted {
			return &rel.Assets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s has no asset %q", ErrUnsupportedPlatform, def.Alias, rel.TagName, wanted)
}

// maxRelease returns the maximum release passing keep, preserving the first
// occurrence on ties (strict greater-than comparison).
func maxRelease(releases []github.Release, keep func(*github.Release) bool) (*github.Release, error) {
	var best *github.Release
	for i := range releases {
		r := &releases[i]
		if !keep(r) {
			continue
		}
		if best == nil || less(best, r) {
			best = r
		}
	}
	if best == nil {
		return nil, ErrEmptyCatalog
	}
	return best, nil
}

// orderClass ranks how a release is compared: 2 = by parsed semver,
// 1 = by publish time, 0 = by raw tag bytes.
func orderClass(r *github.Release) int {
	if parseTag(r.TagName) != nil {
		return 2
	}
	if !r.PublishedAt.IsZero() {
		return 1
	}
	return 0
}

// less reports whether a orders strictly before b.
func less(a, b *github.Release) bool {
	ca, cb := orderClass(a), orderClass(b)
	if ca != cb {
		return ca < cb
	}
	switch ca {
	case 2:
		return parseTag(a.TagName).LessThan(parseTag(b.TagName))
	case 1:
		return a.PublishedAt.Before(b.PublishedAt)
	default:
		return a.TagName < b.TagName
	}
}

// parseTag parses a release tag as semver, tolerating a leading "v".
// Returns nil for tags that are not semantic versions.
func parseTag(tag string) *semver.Version {
	v, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil
	}
	return v
}
