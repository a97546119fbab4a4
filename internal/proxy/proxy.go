// Package proxy runs the active version of a managed package in place of
// the invoked alias. The child gets the caller's stdin, stdout, stderr,
// arguments and environment untouched, signals are relayed, and the child's
// exit status becomes the proxy's exit status.
package proxy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/falcucci/hyper-jump/internal/catalog"
	"github.com/falcucci/hyper-jump/internal/store"
)

var (
	// ErrNoActiveVersion: the package has versions installed (or none) but
	// no active marker. The caller should suggest `hyper-jump use`.
	ErrNoActiveVersion = errors.New("no active version")

	// ErrExecutableMissing: the active version directory exists but the
	// expected executable is not in it, or is not executable.
	ErrExecutableMissing = errors.New("executable missing from installed version")
)

// relayedSignals are forwarded to the child while it runs. SIGKILL cannot
// be caught; SIGCHLD and friends stay with the proxy.
var relayedSignals = []os.Signal{
	os.Interrupt,
	unix.SIGTERM,
	unix.SIGHUP,
	unix.SIGQUIT,
	unix.SIGUSR1,
	unix.SIGUSR2,
	unix.SIGWINCH,
}

// Proxy dispatches alias invocations to the active installed version.
type Proxy struct {
	store *store.Store

	// Streams default to the process's own; tests override them.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a proxy over the given version store.
func New(st *store.Store) *Proxy {
	return &Proxy{
		store:  st,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// ExecutablePath resolves the alias to the executable of its active
// version without running anything.
func (p *Proxy) ExecutablePath(alias string) (string, error) {
	def, err := catalog.Lookup(alias)
	if err != nil {
		return "", err
	}

	active, ok, err := p.store.ActiveVersion(alias)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w for %s; run `hyper-jump use %s <version>`", ErrNoActiveVersion, alias, alias)
	}

	path := filepath.Join(p.store.VersionDir(alias, active), filepath.FromSlash(def.ExecPath))
	if err := unix.Access(path, unix.X_OK); err != nil {
		return "", fmt.Errorf("%w: %s (%s %s)", ErrExecutableMissing, path, alias, active)
	}
	return path, nil
}

// Run executes the active version of alias with the given arguments and
// returns the child's exit code. A child killed by signal N reports 128+N.
// A nonzero child exit is a normal outcome, not an error; the error return
// covers dispatch failures only.
func (p *Proxy) Run(alias string, args []string) (int, error) {
	path, err := p.ExecutablePath(alias)
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	cmd.Env = os.Environ()

	// Capture signals before the child exists so a SIGTERM arriving during
	// startup is queued and forwarded instead of killing the proxy and
	// orphaning the child. The buffer holds early arrivals until the relay
	// goroutine drains them.
	sigc := make(chan os.Signal, 8)
	signal.Notify(sigc, relayedSignals...)

	if err := cmd.Start(); err != nil {
		signal.Stop(sigc)
		return 0, fmt.Errorf("start %s: %w", path, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigc:
				cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	waitErr := cmd.Wait()
	close(done)
	signal.Stop(sigc)

	if waitErr == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("wait for %s: %w", path, waitErr)
}
