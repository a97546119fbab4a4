// Package archive unpacks release archives. It is pure plumbing: a byte
// stream plus a format goes in, a directory of files comes out. Formats are
// chosen by the originating asset's file extension — release asset names are
// controlled by upstream conventions, so magic-byte sniffing is never needed.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Format is the archive encoding, detected from the asset filename.
type Format int

const (
	FormatTarGz Format = iota
	FormatTarXz
	FormatZip
)

func (f Format) String() string {
	switch f {
	case FormatTarGz:
		return "tar.gz"
	case FormatTarXz:
		return "tar.xz"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownFormat means the asset name's extension matches no handler.
	ErrUnknownFormat = errors.New("unknown archive format")

	// ErrUnsafeEntry means an archive entry's resolved path escapes the
	// destination root.
	ErrUnsafeEntry = errors.New("archive entry escapes destination")
)

// ExtractionError wraps any decode or filesystem failure during extraction.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s archive: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// DetectFormat maps an asset filename to its archive format.
func DetectFormat(assetName string) (Format, error) {
	switch {
	case strings.HasSuffix(assetName, ".tar.gz"), strings.HasSuffix(assetName, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(assetName, ".tar.xz"):
		return FormatTarXz, nil
	case strings.HasSuffix(assetName, ".zip"):
		return FormatZip, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, assetName)
	}
}

// Extract unpacks the archive at archivePath into destDir, creating destDir
// if needed. Decoding streams — the archive is never held in memory whole.
// No entry is ever written outside destDir; a traversal attempt aborts the
// extraction with ErrUnsafeEntry.
func Extract(archivePath string, format Format, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &ExtractionError{Format: format, Err: err}
	}

	switch format {
	case FormatTarGz, FormatTarXz:
		f, err := os.Open(archivePath)
		if err != nil {
			return &ExtractionError{Format: format, Err: err}
		}
		defer f.Close()

		var decoded io.Reader
		if format == FormatTarGz {
			gz, err := gzip.NewReader(f)
			if err != nil {
				return &ExtractionError{Format: format, Err: err}
			}
			defer gz.Close()
			decoded = gz
		} else {
			xzr, err := xz.NewReader(f)
			if err != nil {
				return &ExtractionError{Format: format, Err: err}
			}
			decoded = xzr
		}
		return extractTar(decoded, format, destDir)

	case FormatZip:
		return extractZip(archivePath, destDir)

	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// securePath joins an archive entry name onto destDir, rejecting entries
// whose resolved path would land outside it. The destination root itself is
// a valid target: GNU tar writes a "./" entry for archives built with
// `tar -C dir .`, and that must extract, not abort.
func securePath(destDir, name string) (string, error) {
	root := filepath.Clean(destDir)
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeEntry, name)
	}
	return target, nil
}

func extractTar(r io.Reader, format Format, destDir string) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ExtractionError{Format: format, Err: err}
		}

		target, err := securePath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return &ExtractionError{Format: format, Err: err}
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return &ExtractionError{Format: format, Err: err}
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)&0o777)
			if err != nil {
				return &ExtractionError{Format: format, Err: err}
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return &ExtractionError{Format: format, Err: err}
			}
			if err := out.Close(); err != nil {
				return &ExtractionError{Format: format, Err: err}
			}

		case tar.TypeSymlink:
			// A link target escaping the destination is as unsafe as
			// an escaping entry name.
			if filepath.IsAbs(header.Linkname) {
				return fmt.Errorf("%w: symlink %q -> %q", ErrUnsafeEntry, header.Name, header.Linkname)
			}
			resolved := filepath.Join(filepath.Dir(target), filepath.FromSlash(header.Linkname))
			if !strings.HasPrefix(resolved, filepath.Clean(destDir)+string(os.PathSeparator)) {
				return fmt.Errorf("%w: symlink %q -> %q", ErrUnsafeEntry, header.Name, header.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return &ExtractionError{Format: format, Err: err}
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return &ExtractionError{Format: format, Err: err}
			}

		default:
			// Devices, FIFOs and the like never belong in a release
			// archive; skip rather than fail.
			continue
		}
	}
}

func extractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return &ExtractionError{Format: FormatZip, Err: err}
	}
	defer zr.Close()

	for _, entry := range zr.File {
		target, err := securePath(destDir, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return &ExtractionError{Format: FormatZip, Err: err}
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return &ExtractionError{Format: FormatZip, Err: err}
		}

		src, err := entry.Open()
		if err != nil {
			return &ExtractionError{Format: FormatZip, Err: err}
		}

		mode := entry.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
		if err != nil {
			src.Close()
			return &ExtractionError{Format: FormatZip, Err: err}
		}
		if _, err := io.Copy(out, src); err != nil {
			out.Close()
			src.Close()
			return &ExtractionError{Format: FormatZip, Err: err}
		}
		src.Close()
		if err := out.Close(); err != nil {
			return &ExtractionError{Format: FormatZip, Err: err}
		}
	}

	return nil
}
