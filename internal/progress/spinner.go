package progress

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows activity on a terminal. On anything that is not a TTY it
// does nothing, so output piped to a file stays clean.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner with message as its suffix, writing to w.
// It is inert unless caps reports a TTY.
func NewSpinner(w io.Writer, message string, caps TerminalCapabilities) *Spinner {
	if !caps.IsTTY {
		return &Spinner{}
	}
	if w == nil {
		w = os.Stderr
	}
	symbols := SelectSymbols(caps)
	s := spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return &Spinner{s: s}
}

// Start begins animating.
func (p *Spinner) Start() {
	if p.s != nil {
		p.s.Start()
	}
}

// Stop clears the spinner line.
func (p *Spinner) Stop() {
	if p.s != nil {
		p.s.Stop()
	}
}
