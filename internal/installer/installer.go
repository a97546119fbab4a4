// Package installer drives the install pipeline: resolve a version against
// the package's GitHub releases, download the platform asset, extract it,
// and hand the finished tree to the version store.
//
// Every intermediate product lives in a scratch directory under the store
// root. The pipeline either completes through the store's atomic rename or
// leaves the store untouched; partial downloads and extractions are swept
// away with the scratch directory.
package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/falcucci/hyper-jump/internal/archive"
	"github.com/falcucci/hyper-jump/internal/catalog"
	"github.com/falcucci/hyper-jump/internal/github"
	"github.com/falcucci/hyper-jump/internal/store"
	"github.com/falcucci/hyper-jump/internal/version"
)

// DownloadError reports a failed or truncated asset transfer.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Options tune one install run.
type Options struct {
	// Activate switches the package's active marker to the installed
	// version after a successful install.
	Activate bool

	// Progress, when set, receives byte counts during the download.
	// total is <= 0 when the server did not report a length.
	Progress func(received, total int64)
}

// Result describes what an install run did.
type Result struct {
	Package string
	Version string
	Path    string

	// AlreadyInstalled is true when the resolved version was present
	// before the run; no download happened.
	AlreadyInstalled bool
	Activated        bool
}

// Installer wires the release client and the version store together.
type Installer struct {
	client   *github.Client
	store    *store.Store
	platform catalog.Platform
}

// New creates an installer targeting the current platform.
func New(client *github.Client, st *store.Store) *Installer {
	return &Installer{client: client, store: st, platform: catalog.Current()}
}

// NewForPlatform creates an installer targeting an explicit platform.
func NewForPlatform(client *github.Client, st *store.Store, p catalog.Platform) *Installer {
	return &Installer{client: client, store: st, platform: p}
}

// Resolve maps a version token onto a concrete release without installing.
func (i *Installer) Resolve(ctx context.Context, alias, token string) (*github.Release, error) {
	def, err := catalog.Lookup(alias)
	if err != nil {
		return nil, err
	}
	releases, err := i.client.ListReleases(ctx, def.Owner, def.Repo)
	if err != nil {
		return nil, err
	}
	return version.Resolve(token, releases)
}

// Install resolves token for alias and installs the matching release.
// Installing a version that is already present is not an error; the run
// reports AlreadyInstalled and still honors Activate.
func (i *Installer) Install(ctx context.Context, alias, token string, opts Options) (Result, error) {
	def, err := catalog.Lookup(alias)
	if err != nil {
		return Result{}, err
	}

	releases, err := i.client.ListReleases(ctx, def.Owner, def.Repo)
	if err != nil {
		return Result{}, err
	}

	rel, err := version.Resolve(token, releases)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Package: alias,
		Version: rel.TagName,
		Path:    i.store.VersionDir(alias, rel.TagName),
	}

	// Short-circuit before touching the network for the asset.
	if installed, err := i.isInstalled(alias, rel.TagName); err != nil {
		return Result{}, err
	} else if installed {
		res.AlreadyInstalled = true
		return i.finish(res, opts)
	}

	asset, err := version.SelectAsset(def, rel, i.platform)
	if err != nil {
		return Result{}, err
	}

	scratch, err := i.store.ScratchDir(alias + "-*")
	if err != nil {
		return Result{}, err
	}
	defer os.RemoveAll(scratch)

	archivePath := filepath.Join(scratch, asset.Name)
	if err := i.download(ctx, asset, archivePath, opts.Progress); err != nil {
		return Result{}, err
	}

	format, err := archive.DetectFormat(asset.Name)
	if err != nil {
		return Result{}, err
	}

	extractDir := filepath.Join(scratch, "extracted")
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create extraction dir: %w", err)
	}
	if err := archive.Extract(archivePath, format, extractDir); err != nil {
		return Result{}, err
	}

	if _, err := i.store.Install(alias, rel.TagName, extractDir); err != nil {
		// A concurrent install of the same version may have won the
		// rename race; that is still a success for this run.
		if installed, checkErr := i.isInstalled(alias, rel.TagName); checkErr == nil && installed {
			res.AlreadyInstalled = true
			return i.finish(res, opts)
		}
		return Result{}, err
	}

	return i.finish(res, opts)
}

func (i *Installer) finish(res Result, opts Options) (Result, error) {
	if opts.Activate {
		if err := i.store.Activate(res.Package, res.Version); err != nil {
			return Result{}, err
		}
		res.Activated = true
	}
	return res, nil
}

func (i *Installer) isInstalled(alias, tag string) (bool, error) {
	installed, err := i.store.ListInstalled(alias)
	if err != nil {
		return false, err
	}
	for _, v := range installed {
		if v.Version == tag {
			return true, nil
		}
	}
	return false, nil
}

// download streams the asset to path, reporting progress as bytes arrive.
// A short read against a known Content-Length is an error, not a success.
func (i *Installer) download(ctx context.Context, asset *github.Asset, path string, progress func(received, total int64)) error {
	body, total, err := i.client.OpenAsset(ctx, asset.DownloadURL)
	if err != nil {
		return &DownloadError{URL: asset.DownloadURL, Err: err}
	}
	defer body.Close()

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &DownloadError{URL: asset.DownloadURL, Err: err}
	}

	src := io.Reader(body)
	if progress != nil {
		src = &progressReader{r: body, total: total, report: progress}
	}

	written, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && total > 0 && written != total {
		err = fmt.Errorf("short transfer: got %d of %d bytes", written, total)
	}
	if err != nil {
		os.Remove(path)
		return &DownloadError{URL: asset.DownloadURL, Err: err}
	}
	return nil
}

// progressReader reports cumulative byte counts as the body is consumed.
type progressReader struct {
	r        io.Reader
	total    int64
	received int64
	report   func(received, total int64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.received += int64(n)
		p.report(p.received, p.total)
	}
	return n, err
}
