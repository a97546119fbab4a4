package installer

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/falcucci/hyper-jump/internal/catalog"
	"github.com/falcucci/hyper-jump/internal/github"
	"github.com/falcucci/hyper-jump/internal/store"
	"github.com/falcucci/hyper-jump/internal/version"
)

var linuxAmd64 = catalog.Platform{OS: "linux", Arch: "amd64"}

// buildTarGz returns a tar.gz archive holding the given files.
func buildTarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		if err := tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o755,
			Size: int64(len(content)),
		}); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// testEnv wires an httptest release server to an installer over a fresh store.
type testEnv struct {
	installer     *Installer
	store         *store.Store
	assetRequests *int64
}

// newTestEnv serves the given releases for aiken-lang/aiken and the given
// body for every asset download.
func newTestEnv(t *testing.T, releases []github.Release, assetBody []byte, assetStatus int) testEnv {
	t.Helper()

	var assetRequests int64
	mux := http.NewServeMux()

	var srv *httptest.Server
	mux.HandleFunc("/repos/aiken-lang/aiken/releases", func(w http.ResponseWriter, r *http.Request) {
		// Rewrite asset URLs onto this server.
		out := make([]github.Release, len(releases))
		copy(out, releases)
		for i := range out {
			assets := make([]github.Asset, len(out[i].Assets))
			copy(assets, out[i].Assets)
			for j := range assets {
				assets[j].DownloadURL = srv.URL + "/assets/" + assets[j].Name
			}
			out[i].Assets = assets
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/assets/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&assetRequests, 1)
		if assetStatus != http.StatusOK {
			w.WriteHeader(assetStatus)
			return
		}
		w.Write(assetBody)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := github.NewClient("")
	client.BaseURL = srv.URL

	st := store.New(t.TempDir())
	return testEnv{
		installer:     NewForPlatform(client, st, linuxAmd64),
		store:         st,
		assetRequests: &assetRequests,
	}
}

func aikenRelease(tag string) github.Release {
	return github.Release{
		TagName: tag,
		Assets: []github.Asset{
			{Name: "aiken-x86_64-unknown-linux-gnu.tar.gz"},
		},
	}
}

// TestInstallEndToEnd runs the whole pipeline: resolve latest, download,
// extract, store, activate, with progress reported along the way.
func TestInstallEndToEnd(t *testing.T) {
	body := buildTarGz(t, map[string]string{"aiken": "#!/bin/sh\necho aiken\n"})
	env := newTestEnv(t, []github.Release{aikenRelease("v1.0.28"), aikenRelease("v1.0.29")}, body, http.StatusOK)

	var lastReceived, lastTotal int64
	res, err := env.installer.Install(context.Background(), "aiken", version.Latest, Options{
		Activate: true,
		Progress: func(received, total int64) {
			lastReceived, lastTotal = received, total
		},
	})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}

	if res.Version != "v1.0.29" {
		t.Errorf("Version = %q, want v1.0.29", res.Version)
	}
	if res.AlreadyInstalled || !res.Activated {
		t.Errorf("flags = %+v, want fresh activated install", res)
	}
	if lastReceived != int64(len(body)) || lastTotal != int64(len(body)) {
		t.Errorf("final progress = %d/%d, want %d/%d", lastReceived, lastTotal, len(body), len(body))
	}

	data, err := os.ReadFile(filepath.Join(res.Path, "aiken"))
	if err != nil {
		t.Fatalf("read installed executable: %v", err)
	}
	if !bytes.Contains(data, []byte("echo aiken")) {
		t.Errorf("installed executable content wrong: %q", data)
	}

	active, ok, err := env.store.ActiveVersion("aiken")
	if err != nil || !ok || active != "v1.0.29" {
		t.Errorf("ActiveVersion = %q ok=%v err=%v, want v1.0.29", active, ok, err)
	}
}

// TestInstallAlreadyInstalled verifies a repeat install skips the download
// and still honors Activate.
func TestInstallAlreadyInstalled(t *testing.T) {
	body := buildTarGz(t, map[string]string{"aiken": "x"})
	env := newTestEnv(t, []github.Release{aikenRelease("v1.0.29")}, body, http.StatusOK)

	if _, err := env.installer.Install(context.Background(), "aiken", "v1.0.29", Options{}); err != nil {
		t.Fatalf("first Install: %v", err)
	}
	downloads := atomic.LoadInt64(env.assetRequests)

	res, err := env.installer.Install(context.Background(), "aiken", "v1.0.29", Options{Activate: true})
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if !res.AlreadyInstalled || !res.Activated {
		t.Errorf("flags = %+v, want already-installed activated", res)
	}
	if got := atomic.LoadInt64(env.assetRequests); got != downloads {
		t.Errorf("repeat install downloaded the asset again (%d -> %d requests)", downloads, got)
	}
}

// TestInstallUnknownPackage verifies nothing happens for an alias outside
// the catalog.
func TestInstallUnknownPackage(t *testing.T) {
	env := newTestEnv(t, nil, nil, http.StatusOK)

	_, err := env.installer.Install(context.Background(), "nonexistent-tool", version.Latest, Options{})
	if !errors.Is(err, catalog.ErrUnknownPackage) {
		t.Fatalf("err = %v, want ErrUnknownPackage", err)
	}
}

// TestInstallUnsupportedPlatform verifies asset selection failure surfaces
// before any download.
func TestInstallUnsupportedPlatform(t *testing.T) {
	env := newTestEnv(t, []github.Release{aikenRelease("v1.0.29")}, nil, http.StatusOK)
	env.installer.platform = catalog.Platform{OS: "plan9", Arch: "amd64"}

	_, err := env.installer.Install(context.Background(), "aiken", version.Latest, Options{})
	if !errors.Is(err, version.ErrUnsupportedPlatform) {
		t.Fatalf("err = %v, want ErrUnsupportedPlatform", err)
	}
	if atomic.LoadInt64(env.assetRequests) != 0 {
		t.Error("asset downloaded despite unsupported platform")
	}
}

// TestInstallDownloadFailure verifies a failed transfer leaves the store
// untouched.
func TestInstallDownloadFailure(t *testing.T) {
	env := newTestEnv(t, []github.Release{aikenRelease("v1.0.29")}, nil, http.StatusNotFound)

	_, err := env.installer.Install(context.Background(), "aiken", version.Latest, Options{})
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("err = %v, want *DownloadError", err)
	}

	list, listErr := env.store.ListInstalled("aiken")
	if listErr != nil {
		t.Fatal(listErr)
	}
	if len(list) != 0 {
		t.Errorf("store has entries after failed download: %+v", list)
	}
}

// TestInstallCorruptArchive verifies extraction failure leaves the store
// untouched and cleans the scratch area.
func TestInstallCorruptArchive(t *testing.T) {
	env := newTestEnv(t, []github.Release{aikenRelease("v1.0.29")}, []byte("this is not a gzip stream"), http.StatusOK)

	_, err := env.installer.Install(context.Background(), "aiken", version.Latest, Options{})
	if err == nil {
		t.Fatal("Install accepted a corrupt archive")
	}

	list, listErr := env.store.ListInstalled("aiken")
	if listErr != nil {
		t.Fatal(listErr)
	}
	if len(list) != 0 {
		t.Errorf("store has entries after failed extraction: %+v", list)
	}

	// Scratch area holds nothing but the (possibly empty) base directory.
	scratchBase := filepath.Join(env.store.Root(), ".scratch")
	entries, readErr := os.ReadDir(scratchBase)
	if readErr != nil && !os.IsNotExist(readErr) {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("scratch area not cleaned: %v", entries)
	}
}

// TestResolveOnly verifies Resolve maps tokens without installing anything.
func TestResolveOnly(t *testing.T) {
	env := newTestEnv(t, []github.Release{aikenRelease("v1.0.28"), aikenRelease("v1.0.29")}, nil, http.StatusOK)

	rel, err := env.installer.Resolve(context.Background(), "aiken", "^1.0")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rel.TagName != "v1.0.29" {
		t.Errorf("TagName = %q, want v1.0.29", rel.TagName)
	}
	if list, _ := env.store.ListInstalled("aiken"); len(list) != 0 {
		t.Error("Resolve modified the store")
	}
}
