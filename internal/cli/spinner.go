package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
)

var (
	spinnerFrames   = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerInterval = 80 * time.Millisecond
)

// spinner animates a status line while a layout runs. It stops when stop is
// called or its context ends, and erases whatever it drew.
type spinner struct {
	w       io.Writer
	message string
	cancel  context.CancelFunc
	stopped chan struct{}
}

// startSpinner starts a spinner on w if w is a terminal. On anything else
// it does nothing, so piped or captured output stays clean.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	return newSpinner(ctx, w, message, isTerminal(w))
}

func newSpinner(ctx context.Context, w io.Writer, message string, animate bool) *spinner {
	s := &spinner{w: w, message: message, stopped: make(chan struct{})}
	if !animate {
		s.cancel = func() {}
		close(s.stopped)
		return s
	}
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	drawn := false
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			if drawn {
				fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
			}
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			drawn = true
		}
	}
}

// stop halts the animation and waits for the line to be cleared. It is
// safe to call more than once.
func (s *spinner) stop() {
	s.cancel()
	<-s.stopped
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
