package tui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows an animated progress line while a long operation runs and
// replaces it with a ✔ or ✖ line when it finishes. On writers that are not
// terminals it degrades to plain start and finish lines so CI logs stay
// readable.
type Spinner struct {
	w     io.Writer
	out   *termenv.Output
	text  string
	isTTY bool

	mu       sync.Mutex
	active   bool
	done     chan struct{}
	finished chan struct{}
}

// NewSpinner creates a spinner writing to w, labelled with text.
func NewSpinner(w io.Writer, text string) *Spinner {
	return &Spinner{
		w:     w,
		out:   termenv.NewOutput(w),
		text:  text,
		isTTY: isTerminal(w),
	}
}

// Start begins the animation. Starting an already running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true

	if !s.isTTY {
		fmt.Fprintf(s.w, "%s...\n", s.text)
		return
	}

	s.done = make(chan struct{})
	s.finished = make(chan struct{})
	s.out.HideCursor()
	go s.spin(s.done, s.finished)
}

// Succeed stops the spinner with a green check mark. An empty text keeps the
// spinner's label.
func (s *Spinner) Succeed(text string) {
	s.stop(s.out.String("✔").Foreground(termenv.ANSIGreen).String(), text)
}

// Fail stops the spinner with a red cross. An empty text keeps the spinner's
// label.
func (s *Spinner) Fail(text string) {
	s.stop(s.out.String("✖").Foreground(termenv.ANSIRed).String(), text)
}

func (s *Spinner) stop(symbol, text string) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	done, finished := s.done, s.finished
	s.mu.Unlock()

	if text == "" {
		text = s.text
	}

	if !s.isTTY {
		fmt.Fprintf(s.w, "%s %s\n", symbol, text)
		return
	}

	close(done)
	<-finished
	s.out.ClearLine()
	fmt.Fprintf(s.w, "\r%s %s\n", symbol, text)
	s.out.ShowCursor()
}

// spin owns the writer between Start and stop; the final line is only
// written after this goroutine exits.
func (s *Spinner) spin(done, finished chan struct{}) {
	defer close(finished)

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	frame := 0
	s.render(frame)
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			frame++
			s.render(frame)
		}
	}
}

func (s *Spinner) render(frame int) {
	glyph := s.out.String(spinnerFrames[frame%len(spinnerFrames)]).Foreground(termenv.ANSICyan)
	s.out.ClearLine()
	fmt.Fprintf(s.w, "\r%s %s", glyph, s.text)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
