package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

// writeTarGz builds a small gzip-compressed tar file on disk and returns its
// path. entries maps archive paths to file contents; a trailing slash marks a
// directory.
func writeTarGz(t *testing.T, entries map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	writeTarEntries(t, gz, entries)
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}

	path := filepath.Join(t.TempDir(), "asset.tar.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func writeTarXz(t *testing.T, entries map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("create xz writer: %v", err)
	}
	writeTarEntries(t, xzw, entries)
	if err := xzw.Close(); err != nil {
		t.Fatalf("close xz writer: %v", err)
	}

	path := filepath.Join(t.TempDir(), "asset.tar.xz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func writeTarEntries(t *testing.T, w interface{ Write([]byte) (int, error) }, entries map[string]string) {
	t.Helper()

	tw := tar.NewWriter(w)
	for name, content := range entries {
		if name[len(name)-1] == '/' {
			if err := tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeDir, Mode: 0o755}); err != nil {
				t.Fatalf("write dir header: %v", err)
			}
			continue
		}
		hdr := &tar.Header{Name: name, Mode: 0o755, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write header %q: %v", name, err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write body %q: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
}

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %q: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}

	path := filepath.Join(t.TempDir(), "asset.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// TestDetectFormat covers the extension table and the unknown fallback.
func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name   string
		want   Format
		wantOK bool
	}{
		{"cardano-node-8.9.2-linux.tar.gz", FormatTarGz, true},
		{"tool.tgz", FormatTarGz, true},
		{"zellij-x86_64-unknown-linux-musl.tar.xz", FormatTarXz, true},
		{"cardano-node-8.9.2-win64.zip", FormatZip, true},
		{"tool.rar", 0, false},
		{"tool.gz", 0, false},
	}
	for _, tc := range cases {
		got, err := DetectFormat(tc.name)
		if tc.wantOK {
			if err != nil {
				t.Errorf("DetectFormat(%q) failed: %v", tc.name, err)
			} else if got != tc.want {
				t.Errorf("DetectFormat(%q) = %v; want %v", tc.name, got, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("DetectFormat(%q) error = %v; want ErrUnknownFormat", tc.name, err)
		}
	}
}

// TestExtract_TarGz verifies a normal tar.gz tree round-trips to disk.
func TestExtract_TarGz(t *testing.T) {
	path := writeTarGz(t, map[string]string{
		"bin/":             "",
		"bin/cardano-node": "#!/bin/true\n",
		"share/doc.txt":    "docs",
	})
	dest := filepath.Join(t.TempDir(), "out")

	if err := Extract(path, FormatTarGz, dest); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "bin", "cardano-node"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "#!/bin/true\n" {
		t.Errorf("extracted content = %q", data)
	}

	info, err := os.Stat(filepath.Join(dest, "bin", "cardano-node"))
	if err != nil {
		t.Fatalf("stat extracted file: %v", err)
	}
	if info.Mode()&0o100 == 0 {
		t.Error("executable bit lost during extraction")
	}
}

// TestExtract_DotSlashRootEntry verifies archives built with `tar -C dir .`
// extract cleanly. GNU tar emits a "./" root entry and "./"-prefixed member
// names for such archives; the root entry resolves to the destination itself
// and must not trip the traversal check.
func TestExtract_DotSlashRootEntry(t *testing.T) {
	path := writeTarGz(t, map[string]string{
		"./":         "",
		"./bin/":     "",
		"./bin/tool": "#!/bin/true\n",
	})
	dest := filepath.Join(t.TempDir(), "out")

	if err := Extract(path, FormatTarGz, dest); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "bin", "tool"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "#!/bin/true\n" {
		t.Errorf("extracted content = %q", data)
	}
}

// TestExtract_TarXz verifies the xz path decodes the same tree shape.
func TestExtract_TarXz(t *testing.T) {
	path := writeTarXz(t, map[string]string{"zellij": "binary"})
	dest := filepath.Join(t.TempDir(), "out")

	if err := Extract(path, FormatTarXz, dest); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "zellij"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "binary" {
		t.Errorf("extracted content = %q", data)
	}
}

// TestExtract_Zip verifies the zip path.
func TestExtract_Zip(t *testing.T) {
	path := writeZip(t, map[string]string{
		"bin/cardano-node.exe": "MZ",
	})
	dest := filepath.Join(t.TempDir(), "out")

	if err := Extract(path, FormatZip, dest); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "bin", "cardano-node.exe"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "MZ" {
		t.Errorf("extracted content = %q", data)
	}
}

// TestExtract_PathTraversalRejected verifies an escaping entry aborts the
// extraction and writes nothing outside the destination.
func TestExtract_PathTraversalRejected(t *testing.T) {
	path := writeTarGz(t, map[string]string{
		"../../evil.txt": "pwned",
	})
	base := t.TempDir()
	dest := filepath.Join(base, "deep", "out")

	err := Extract(path, FormatTarGz, dest)
	if !errors.Is(err, ErrUnsafeEntry) {
		t.Fatalf("Extract error = %v; want ErrUnsafeEntry", err)
	}
	if _, statErr := os.Stat(filepath.Join(base, "evil.txt")); !os.IsNotExist(statErr) {
		t.Error("traversal entry was written outside the destination")
	}
	if _, statErr := os.Stat(filepath.Join(base, "deep", "evil.txt")); !os.IsNotExist(statErr) {
		t.Error("traversal entry was written outside the destination")
	}
}

// TestExtract_ZipTraversalRejected covers the same defense on the zip path.
func TestExtract_ZipTraversalRejected(t *testing.T) {
	path := writeZip(t, map[string]string{
		"../escape.txt": "pwned",
	})
	base := t.TempDir()
	dest := filepath.Join(base, "out")

	err := Extract(path, FormatZip, dest)
	if !errors.Is(err, ErrUnsafeEntry) {
		t.Fatalf("Extract error = %v; want ErrUnsafeEntry", err)
	}
	if _, statErr := os.Stat(filepath.Join(base, "escape.txt")); !os.IsNotExist(statErr) {
		t.Error("traversal entry was written outside the destination")
	}
}

// TestExtract_UnsafeSymlinkRejected verifies both absolute and escaping
// relative link targets are refused.
func TestExtract_UnsafeSymlinkRejected(t *testing.T) {
	for name, link := range map[string]string{
		"absolute": "/etc/passwd",
		"relative": "../../etc/passwd",
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			tw := tar.NewWriter(gz)
			if err := tw.WriteHeader(&tar.Header{
				Name:     "bin/evil",
				Typeflag: tar.TypeSymlink,
				Linkname: link,
				Mode:     0o777,
			}); err != nil {
				t.Fatalf("write symlink header: %v", err)
			}
			if err := tw.Close(); err != nil {
				t.Fatalf("close tar: %v", err)
			}
			if err := gz.Close(); err != nil {
				t.Fatalf("close gzip: %v", err)
			}
			path := filepath.Join(t.TempDir(), "asset.tar.gz")
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				t.Fatalf("write archive: %v", err)
			}

			err := Extract(path, FormatTarGz, filepath.Join(t.TempDir(), "out"))
			if !errors.Is(err, ErrUnsafeEntry) {
				t.Errorf("Extract error = %v; want ErrUnsafeEntry", err)
			}
		})
	}
}

// TestExtract_CorruptArchive verifies garbage input surfaces as an
// ExtractionError, not a panic or a bare io error.
func TestExtract_CorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asset.tar.gz")
	if err := os.WriteFile(path, []byte("this is not gzip"), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	err := Extract(path, FormatTarGz, filepath.Join(t.TempDir(), "out"))
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Errorf("Extract error = %v; want *ExtractionError", err)
	}
}
