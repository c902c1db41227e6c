package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"
)

const spinnerFrames = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"

// Spinner animates a progress mark after a message on a terminal line.
type Spinner struct {
	// StopMsg is written in place of the spinner line by Stop.
	StopMsg string

	w          io.Writer
	msg        string
	delay      time.Duration
	hideCursor bool

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewSpinner returns a spinner writing to stderr.
func NewSpinner(msg string, d time.Duration, hideCursor bool) *Spinner {
	return NewSpinnerTo(os.Stderr, msg, d, hideCursor)
}

// NewSpinnerTo returns a spinner writing to w.
func NewSpinnerTo(w io.Writer, msg string, d time.Duration, hideCursor bool) *Spinner {
	return &Spinner{
		w:          w,
		msg:        msg,
		delay:      d,
		hideCursor: hideCursor,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start animates the spinner until Stop is called.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	s.cursor(false)
	go func() {
		defer close(s.done)
		t := time.NewTicker(s.delay)
		defer t.Stop()
		for {
			for _, r := range spinnerFrames {
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s%s %c%s", s.msg, SuccessColor, r, DefaultColor)
				s.mu.Unlock()
				select {
				case <-s.stop:
					return
				case <-t.C:
				}
			}
		}
	}()
}

// Stop ends the animation, clears the line and writes StopMsg. Only the
// first call has an effect.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			close(s.stop)
			<-s.done
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		fmt.Fprint(s.w, "\r\033[K")
		s.cursor(true)
		fmt.Fprint(s.w, s.StopMsg)
	})
}

// RestoreCursor makes a hidden cursor visible again.
func (s *Spinner) RestoreCursor() { s.cursor(true) }

func (s *Spinner) cursor(visible bool) {
	if !s.hideCursor || runtime.GOOS == "windows" {
		return
	}
	if visible {
		fmt.Fprint(s.w, "\033[?25h")
	} else {
		fmt.Fprint(s.w, "\033[?25l")
	}
}
