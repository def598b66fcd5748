// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal presentation helpers for the command line
// client.
package ux

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 100 * time.Millisecond

// Spinner is an animated progress indicator for long-running commands.
// Output goes to stderr so piped stdout stays clean. Poem generation can
// take up to a minute, so the message is updatable mid-run to tell the
// user why they are waiting.
type Spinner struct {
	mu      sync.Mutex
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewSpinner creates a stopped spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		out:     os.Stderr,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the animation. Calling Start on a running spinner is a
// no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.out, "\r%s %s", spinnerFrames[frame%len(spinnerFrames)], s.message)
				s.mu.Unlock()
				frame++
			}
		}
	}()
}

// SetMessage replaces the message shown next to the animation.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Pad over the previous message so a shorter one doesn't leave a tail.
	if len(message) < len(s.message) {
		fmt.Fprintf(s.out, "\r%*s", len(s.message)+2, "")
	}
	s.message = message
}

// Stop halts the animation and clears the spinner line. Safe to call on
// a spinner that never started, and idempotent.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stop)
	<-s.done

	s.mu.Lock()
	fmt.Fprintf(s.out, "\r%*s\r", len(s.message)+2, "")
	s.mu.Unlock()
}
