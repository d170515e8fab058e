/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package timetrace

import (
	"context"
	"sync"
	"time"
)

// Scope is one timed execution of a named unit of work.
// A nil *Scope is the inert result of BeginScope when nothing is being
// traced; every method is safe to call on it.
type Scope struct {
	trace  *Trace
	parent *Scope
	name   string
	path   string
	start  int64  // trace clock reading at creation
	seq    uint64 // creation order within the trace
	ctx    context.Context

	mu     sync.Mutex // Protects closed and end
	closed bool
	end    int64
	done   chan struct{} // closed once the measurement is recorded
}

func newScope(t *Trace, parent *Scope, name string, start int64) *Scope {
	path := name
	if parent != nil {
		path = parent.path + "/" + name
	}
	return &Scope{
		trace:  t,
		parent: parent,
		name:   name,
		path:   path,
		start:  start,
		done:   make(chan struct{}),
	}
}

// Name returns the full path of the scope: its ancestors' names and its own,
// joined with "/".
func (s *Scope) Name() string {
	if s == nil {
		return ""
	}
	return s.path
}

// ShortName returns the name the scope was begun with.
func (s *Scope) ShortName() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Parent returns the scope this one is nested under, or nil.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// Trace returns the trace that owns the scope.
func (s *Scope) Trace() *Trace {
	if s == nil {
		return nil
	}
	return s.trace
}

// Context returns the context in which the scope is ambient.
func (s *Scope) Context() context.Context {
	if s == nil {
		return context.Background()
	}
	return s.ctx
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Duration returns the time elapsed since the scope began, or the final
// duration once it is closed.
func (s *Scope) Duration() time.Duration {
	if s == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return time.Duration(s.end - s.start)
	}
	return time.Duration(max(s.trace.clock.ElapsedNanoseconds()-s.start, 0))
}

// Close ends the scope and adds its duration to the trace metrics for its
// full path. Only the first call has any effect; concurrent calls return
// once the first has recorded the measurement and notified observers.
func (s *Scope) Close() {
	if s == nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.end = max(s.trace.clock.ElapsedNanoseconds(), s.start)
	s.closed = true
	s.mu.Unlock()

	defer close(s.done)
	s.trace.scopeClosed(s)
}

// elapsedNanoseconds returns end - start; only meaningful once closed.
func (s *Scope) elapsedNanoseconds() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.end - s.start
}
