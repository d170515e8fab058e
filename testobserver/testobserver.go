/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package testobserver provides a timetrace.Observer that reports through a
// testing.TB.
//
// # Usage
//
//	func TestPipeline(t *testing.T) {
//	    obs := testobserver.New(t, testobserver.FailOnLeak())
//	    ctx, tr := timetrace.New(ctx, timetrace.WithObserver(obs))
//
//	    runPipeline(ctx)
//	    tr.Dispose()
//
//	    if diff := cmp.Diff([]string{"Load", "Load/Parse"}, obs.Created()); diff != "" {
//	        t.Errorf("scopes mismatch (-want +got):\n%s", diff)
//	    }
//	}
//
// A scope is leaked when it is still open at the time its trace is disposed
// and gets closed by the disposal.
package testobserver

import (
	"context"
	"sync"
	"testing"

	"chainguard.dev/timetrace"
)

// Observer logs lifecycle events to a testing.TB and records scope paths for
// later assertions. It is safe for concurrent use.
type Observer struct {
	tb         testing.TB
	prefix     string
	failOnLeak bool

	mu       sync.Mutex
	created  []string
	disposed []string
	leaked   []string
	traces   int
}

var _ timetrace.Observer = (*Observer)(nil)

// Option configures an Observer.
type Option func(*Observer)

// WithPrefix prefixes every logged message.
func WithPrefix(prefix string) Option {
	return func(o *Observer) {
		o.prefix = prefix
	}
}

// FailOnLeak marks the test as failed for every leaked scope.
func FailOnLeak() Option {
	return func(o *Observer) {
		o.failOnLeak = true
	}
}

// New creates an Observer reporting to tb.
func New(tb testing.TB, opts ...Option) *Observer {
	o := &Observer{tb: tb}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Observer) logf(format string, args ...any) {
	o.tb.Helper()
	if o.prefix != "" {
		format = o.prefix + ": " + format
	}
	o.tb.Logf(format, args...)
}

// TraceStarted implements timetrace.Observer.
func (o *Observer) TraceStarted(_ context.Context, t *timetrace.Trace) {
	o.logf("trace %s started", t.ID())
}

// ScopeCreated implements timetrace.Observer.
func (o *Observer) ScopeCreated(_ context.Context, s *timetrace.Scope) {
	o.mu.Lock()
	o.created = append(o.created, s.Name())
	o.mu.Unlock()

	o.logf("scope %s created", s.Name())
}

// ScopeDisposed implements timetrace.Observer.
func (o *Observer) ScopeDisposed(_ context.Context, s *timetrace.Scope) {
	// The trace is marked disposed before it closes what is still open.
	leaked := s.Trace().Disposed()

	o.mu.Lock()
	o.disposed = append(o.disposed, s.Name())
	if leaked {
		o.leaked = append(o.leaked, s.Name())
	}
	o.mu.Unlock()

	switch {
	case leaked && o.failOnLeak:
		o.tb.Errorf("scope %s was still open when trace %s was disposed", s.Name(), s.Trace().ID())
	case leaked:
		o.logf("scope %s closed by trace disposal after %v", s.Name(), s.Duration())
	default:
		o.logf("scope %s disposed after %v", s.Name(), s.Duration())
	}
}

// TraceDisposed implements timetrace.Observer.
func (o *Observer) TraceDisposed(_ context.Context, t *timetrace.Trace) {
	o.mu.Lock()
	o.traces++
	o.mu.Unlock()

	o.logf("trace %s disposed after %v", t.ID(), t.TotalDuration())
	for _, m := range t.Metrics() {
		o.logf("  %s: %d calls, %v", m.Name, m.Count, m.TotalDuration)
	}
}

// Created returns the full paths of the scopes created so far, in order.
func (o *Observer) Created() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.created...)
}

// Disposed returns the full paths of the scopes disposed so far, in order.
func (o *Observer) Disposed() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.disposed...)
}

// Leaked returns the full paths of the scopes closed by trace disposal.
func (o *Observer) Leaked() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.leaked...)
}

// Traces returns the number of traces disposed so far.
func (o *Observer) Traces() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.traces
}
