/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package clock

import (
	"sync"
	"time"
)

// Stopwatch is a Clock backed by the monotonic clock reading of time.Now.
// It is safe for concurrent use.
type Stopwatch struct {
	mu          sync.Mutex
	running     bool
	startedAt   time.Time
	accumulated time.Duration
}

var _ Clock = (*Stopwatch)(nil)

// NewStopwatch returns a stopped Stopwatch with zero elapsed time.
func NewStopwatch() *Stopwatch {
	return &Stopwatch{}
}

// StartNew returns a Stopwatch that is already running.
func StartNew() *Stopwatch {
	sw := NewStopwatch()
	sw.Start()
	return sw
}

// Start implements Clock. Starting a running Stopwatch has no effect.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.startedAt = time.Now()
}

// Stop implements Clock. Stopping a stopped Stopwatch has no effect.
func (s *Stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.accumulated += time.Since(s.startedAt)
	s.running = false
}

// Running reports whether the Stopwatch is currently measuring.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Elapsed returns the measured time as a time.Duration.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.accumulated + time.Since(s.startedAt)
	}
	return s.accumulated
}

// ElapsedNanoseconds implements Clock.
func (s *Stopwatch) ElapsedNanoseconds() int64 {
	return int64(s.Elapsed())
}
