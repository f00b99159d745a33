package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a one-line status with the elapsed time, e.g.
// "⠹ Rendering bst... 3s". It stops on Stop or when its context ends.
type spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	start   time.Time

	mu       sync.Mutex
	message  string
	width    int // widest line written, for clearing
	stopOnce sync.Once
}

func newSpinner(ctx context.Context, message string) *spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins drawing in the background.
func (s *spinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.start).Truncate(time.Second)
	line := fmt.Sprintf("%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
	if elapsed > 0 {
		line += " " + StyleDim.Render(elapsed.String())
	}
	if n := len(line); n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s", line)
}

// Stop halts the animation and clears its line. It is safe to call more
// than once.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.start.IsZero() {
			close(s.stopped)
		}
		<-s.stopped
		s.mu.Lock()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		}
		s.mu.Unlock()
	})
}

// Cancelled reports whether the context the spinner was created with has
// ended.
func (s *spinner) Cancelled() bool { return s.parent.Err() != nil }

// StopWithSuccess stops and prints a success line.
func (s *spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops and prints an error line.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}
