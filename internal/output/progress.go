package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ByteProgress displays a download progress bar driven by byte counts.
// Example: [=========>          ]  45% 12.3 MB / 27.1 MB cardano-node
// When the total size is unknown it degrades to a running byte counter.
type ByteProgress struct {
	total       int64
	received    int64
	description string
	width       int
	mu          sync.Mutex
	writer      io.Writer
}

// NewByteProgress creates a progress bar for a transfer of total bytes.
// Pass total <= 0 when the size is unknown.
func NewByteProgress(total int64, description string) *ByteProgress {
	return &ByteProgress{
		total:       total,
		description: description,
		width:       40,
		writer:      os.Stdout,
	}
}

// SetWriter sets the output writer (useful for testing).
func (p *ByteProgress) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = w
}

// Update sets the received byte count and redraws the bar.
func (p *ByteProgress) Update(received int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.received = received
	if p.total > 0 && p.received > p.total {
		p.received = p.total
	}

	p.render()
}

// Finish completes the bar and moves to a new line.
func (p *ByteProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	alreadyDone := p.total > 0 && p.received == p.total
	if p.total > 0 {
		p.received = p.total
	}

	if writerIsTTY(p.writer) {
		// TTY: render() uses \r (no newline), so always re-render and then newline.
		p.render()
		fmt.Fprintln(p.writer)
	} else if !alreadyDone {
		// Non-TTY: render() emits a line only on completion. If the last
		// Update already emitted it, skip the duplicate.
		p.render()
	}
}

// render draws the bar (must be called with lock held).
func (p *ByteProgress) render() {
	if p.total <= 0 {
		// Unknown size: counters only.
		if writerIsTTY(p.writer) {
			fmt.Fprintf(p.writer, "\r%s %s", formatSize(p.received), p.description)
		}
		return
	}

	percentage := int((p.received * 100) / p.total)
	filled := int((p.received * int64(p.width)) / p.total)

	bar := strings.Builder{}
	bar.WriteString("[")
	for i := 0; i < p.width; i++ {
		switch {
		case i < filled-1:
			bar.WriteString("=")
		case i == filled-1:
			bar.WriteString(">")
		default:
			bar.WriteString(" ")
		}
	}
	bar.WriteString("]")

	line := fmt.Sprintf("%s %3d%% %s / %s %s",
		bar.String(), percentage, formatSize(p.received), formatSize(p.total), p.description)

	if writerIsTTY(p.writer) {
		// TTY: overwrite the current line using carriage return.
		fmt.Fprintf(p.writer, "\r%s", line)
	} else if p.received == p.total {
		// Non-TTY: only emit output on completion to avoid duplicate lines.
		fmt.Fprintf(p.writer, "%s\n", line)
	}
}

// Spinner displays an animated spinner with a message.
// Example: |  Fetching releases...
type Spinner struct {
	message   string
	running   bool
	chars     []string
	mu        sync.Mutex
	writer    io.Writer
	ticker    *time.Ticker
	done      chan struct{}
	startTime time.Time
}

// NewSpinner creates a new spinner with a message.
// If stdout is not a TTY, the animation goroutine is skipped and the
// message is printed once so that log output is not cluttered.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		chars:   []string{"|", "/", "-", "\\"},
		writer:  os.Stdout,
		done:    make(chan struct{}),
	}
}

// SetWriter sets the output writer (useful for testing).
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the spinner animation.
// On a non-TTY writer the animation goroutine is not started; the message
// is printed once instead so that non-interactive output stays clean.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.running = true
	s.startTime = time.Now()

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.ticker = time.NewTicker(100 * time.Millisecond)

	go func() {
		idx := 0
		for {
			select {
			case <-s.ticker.C:
				s.mu.Lock()
				if !s.running {
					s.mu.Unlock()
					return
				}
				fmt.Fprintf(s.writer, "\r%s  %s", s.chars[idx], s.message)
				idx = (idx + 1) % len(s.chars)
				s.mu.Unlock()

			case <-s.done:
				return
			}
		}
	}()
}

// Stop stops the spinner animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)

	// Clear the line only on a TTY; on non-TTY the \r does not overwrite.
	if writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	}
}

// StopWithMessage stops the spinner and displays a final message.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.writer, message)
}
