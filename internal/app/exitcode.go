package app

import (
	"errors"
	"fmt"

	"github.com/falcucci/hyper-jump/internal/archive"
	"github.com/falcucci/hyper-jump/internal/catalog"
	"github.com/falcucci/hyper-jump/internal/github"
	"github.com/falcucci/hyper-jump/internal/installer"
	"github.com/falcucci/hyper-jump/internal/proxy"
	"github.com/falcucci/hyper-jump/internal/store"
	"github.com/falcucci/hyper-jump/internal/version"
)

// Exit codes. Scripts can branch on these; the mapping is part of the CLI
// contract and new failure modes get new codes rather than reusing old ones.
const (
	ExitOK                    = 0
	ExitFailure               = 1
	ExitUnknownPackage        = 2
	ExitNetworkError          = 3
	ExitCatalogParseError     = 4
	ExitVersionNotFound       = 5
	ExitNoMatchingVersion     = 6
	ExitUnsupportedPlatform   = 7
	ExitDownloadError         = 8
	ExitUnknownArchiveFormat  = 9
	ExitUnsafeArchiveEntry    = 10
	ExitExtractionError       = 11
	ExitAlreadyInstalled      = 12
	ExitVersionNotInstalled   = 13
	ExitCannotUninstallActive = 14
	ExitNoActiveVersion       = 15
	ExitExecutableMissing     = 16
)

// ExitError carries a specific process exit code through cobra's error
// return. The proxy uses it to pass a child's status straight through.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error from any subcommand onto the documented exit-code
// table. nil maps to 0; unrecognized errors map to 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var (
		netErr     *github.NetworkError
		parseErr   *github.ParseError
		dlErr      *installer.DownloadError
		extractErr *archive.ExtractionError
	)

	switch {
	case errors.Is(err, catalog.ErrUnknownPackage):
		return ExitUnknownPackage
	case errors.Is(err, version.ErrVersionNotFound):
		return ExitVersionNotFound
	case errors.Is(err, version.ErrNoMatchingVersion), errors.Is(err, version.ErrEmptyCatalog):
		return ExitNoMatchingVersion
	case errors.Is(err, version.ErrUnsupportedPlatform):
		return ExitUnsupportedPlatform
	case errors.Is(err, archive.ErrUnknownFormat):
		return ExitUnknownArchiveFormat
	case errors.Is(err, archive.ErrUnsafeEntry):
		return ExitUnsafeArchiveEntry
	case errors.Is(err, store.ErrAlreadyInstalled):
		return ExitAlreadyInstalled
	case errors.Is(err, store.ErrVersionNotInstalled):
		return ExitVersionNotInstalled
	case errors.Is(err, store.ErrCannotUninstallActive):
		return ExitCannotUninstallActive
	case errors.Is(err, proxy.ErrNoActiveVersion):
		return ExitNoActiveVersion
	case errors.Is(err, proxy.ErrExecutableMissing):
		return ExitExecutableMissing
	case errors.As(err, &dlErr):
		return ExitDownloadError
	case errors.As(err, &extractErr):
		return ExitExtractionError
	case errors.As(err, &netErr):
		return ExitNetworkError
	case errors.As(err, &parseErr):
		return ExitCatalogParseError
	default:
		return ExitFailure
	}
}
