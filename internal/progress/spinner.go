// Package progress draws a terminal activity indicator for long-running steps.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Spinner is a process indicator. It only draws when its writer is a terminal.
type Spinner struct {
	w        io.Writer
	enabled  bool
	interval time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// NewSpinner returns a spinner writing to w.
func NewSpinner(w io.Writer) *Spinner {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = term.IsTerminal(int(f.Fd()))
	}
	return &Spinner{w: w, enabled: enabled, interval: 100 * time.Millisecond}
}

// Start shows message followed by a spinning glyph until Stop is called.
func (s *Spinner) Start(message string) {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopChan != nil {
		return
	}
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		for {
			for _, r := range `-\|/` {
				select {
				case <-stop:
					fmt.Fprintf(s.w, "\r%s done\n", message)
					return
				default:
					fmt.Fprintf(s.w, "\r%s %c", message, r)
					time.Sleep(s.interval)
				}
			}
		}
	}(s.stopChan, s.done)
}

// Stop stops the indicator and waits for its final line to be written.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopChan == nil {
		return
	}
	close(s.stopChan)
	<-s.done
	s.stopChan, s.done = nil, nil
}
