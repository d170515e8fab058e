/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package timetrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"chainguard.dev/timetrace/clock"
	"github.com/chainguard-dev/clog"
)

// Trace is one timing session. It owns a clock and the metrics of every scope
// path closed under it.
type Trace struct {
	id       string
	clock    clock.Clock
	previous *Trace
	observer Observer
	ctx      context.Context

	metrics sync.Map // full path -> *ScopeMetrics, entries are never removed

	mu       sync.Mutex // Protects open and seq, serializes disposal with scope registration
	open     map[*Scope]struct{}
	seq      uint64
	disposed atomic.Bool
}

// New creates a trace, makes it the ambient trace of the returned context and
// starts its clock. The trace that was current in ctx is restored as current
// once the new one is disposed.
func New(ctx context.Context, opts ...Option) (context.Context, *Trace) {
	if ctx == nil {
		ctx = context.Background()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = clock.NewStopwatch()
	}
	if o.id == "" {
		o.id = generateTraceID()
	}

	t := &Trace{
		id:       o.id,
		clock:    o.clock,
		previous: Current(ctx),
		observer: Multi(o.observers...),
		open:     make(map[*Scope]struct{}),
	}
	ctx = context.WithValue(ctx, traceKey{}, t)
	t.ctx = ctx

	t.clock.Start()

	clog.FromContext(ctx).Debug("trace started", "trace_id", t.id)
	t.observer.TraceStarted(ctx, t)

	return ctx, t
}

// BeginScope begins a scope named name under the ambient trace of ctx, nested
// in the ambient scope if there is one. It returns a context in which the new
// scope is ambient.
//
// An empty or all-whitespace name is an error. When instrumentation is
// disabled or no trace is current, BeginScope returns ctx unchanged and a nil
// scope.
func BeginScope(ctx context.Context, name string) (context.Context, *Scope, error) {
	if err := validateName("name", name); err != nil {
		return ctx, nil, err
	}
	if !Enabled() {
		return ctx, nil, nil
	}

	t := Current(ctx)
	if t == nil {
		return ctx, nil, nil
	}

	ctx, s := t.beginScope(ctx, name)
	return ctx, s, nil
}

// BeginScope is like the package-level BeginScope but always begins the
// scope under t, regardless of which trace is ambient in ctx.
// It returns no scope once t has been disposed.
func (t *Trace) BeginScope(ctx context.Context, name string) (context.Context, *Scope, error) {
	if err := validateName("name", name); err != nil {
		return ctx, nil, err
	}
	if t == nil || !Enabled() {
		return ctx, nil, nil
	}
	if ctx == nil {
		ctx = t.ctx
	}

	ctx, s := t.beginScope(ctx, name)
	return ctx, s, nil
}

func (t *Trace) beginScope(ctx context.Context, name string) (context.Context, *Scope) {
	s := newScope(t, t.currentScope(ctx), name, t.clock.ElapsedNanoseconds())
	scopeCtx := context.WithValue(ctx, scopeKey{trace: t}, s)
	s.ctx = scopeCtx

	t.mu.Lock()
	if t.disposed.Load() {
		t.mu.Unlock()
		return ctx, nil
	}
	t.seq++
	s.seq = t.seq
	t.open[s] = struct{}{}
	t.mu.Unlock()

	clog.FromContext(scopeCtx).Debug("scope started", "trace_id", t.id, "scope", s.path)
	t.observer.ScopeCreated(scopeCtx, s)

	return scopeCtx, s
}

// scopeClosed records the measurement of a scope that was just closed.
func (t *Trace) scopeClosed(s *Scope) {
	elapsed := s.elapsedNanoseconds()
	if err := t.metricsFor(s.path).Add(elapsed); err != nil {
		// Only reachable with a clock that goes backwards.
		clog.FromContext(s.ctx).Warn("dropping scope measurement", "trace_id", t.id, "scope", s.path, "error", err)
	}

	t.mu.Lock()
	delete(t.open, s)
	t.mu.Unlock()

	clog.FromContext(s.ctx).Debug("scope ended", "trace_id", t.id, "scope", s.path, "duration", time.Duration(elapsed))
	t.observer.ScopeDisposed(s.ctx, s)
}

// metricsFor returns the accumulator for path, creating it on first use.
func (t *Trace) metricsFor(path string) *ScopeMetrics {
	if m, ok := t.metrics.Load(path); ok {
		return m.(*ScopeMetrics)
	}
	m, _ := t.metrics.LoadOrStore(path, &ScopeMetrics{name: path})
	return m.(*ScopeMetrics)
}

// Dispose closes every scope still open under the trace, stops its clock and
// makes the previously current trace current again. Calls after the first
// have no effect.
func (t *Trace) Dispose() {
	if t == nil {
		return
	}

	t.mu.Lock()
	if t.disposed.Load() {
		t.mu.Unlock()
		return
	}
	t.disposed.Store(true)
	open := make([]*Scope, 0, len(t.open))
	for s := range t.open {
		open = append(open, s)
	}
	t.mu.Unlock()

	// Newest first, so children close before their parents.
	sort.Slice(open, func(i, j int) bool { return open[i].seq > open[j].seq })
	for _, s := range open {
		s.Close()
	}

	t.clock.Stop()

	clog.FromContext(t.ctx).Debug("trace disposed",
		"trace_id", t.id,
		"duration", t.TotalDuration(),
		"force_closed", len(open))
	t.observer.TraceDisposed(t.ctx, t)
}

// ID returns the identifier of the trace.
func (t *Trace) ID() string {
	return t.id
}

// Previous returns the trace that was current when t was created.
func (t *Trace) Previous() *Trace {
	return t.previous
}

// Disposed reports whether Dispose has been called.
func (t *Trace) Disposed() bool {
	return t.disposed.Load()
}

// TotalDuration returns the time measured by the trace's clock since creation.
func (t *Trace) TotalDuration() time.Duration {
	return time.Duration(t.clock.ElapsedNanoseconds())
}

// OpenScopes returns the number of scopes begun under the trace and not yet closed.
func (t *Trace) OpenScopes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.open)
}

// Metrics returns the metrics of every scope path closed so far, sorted by path.
// Scopes that are still open do not contribute.
func (t *Trace) Metrics() []Snapshot {
	var out []Snapshot
	t.metrics.Range(func(_, value any) bool {
		out = append(out, value.(*ScopeMetrics).Snapshot())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Metric returns the metrics of a single full path.
func (t *Trace) Metric(path string) (Snapshot, bool) {
	m, ok := t.metrics.Load(path)
	if !ok {
		return Snapshot{}, false
	}
	return m.(*ScopeMetrics).Snapshot(), true
}

// String returns a short description of the trace
func (t *Trace) String() string {
	return fmt.Sprintf("trace %s (%v)", t.id, t.TotalDuration())
}

// generateTraceID generates a unique trace ID
func generateTraceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp only if random generation fails
		return time.Now().Format("20060102-150405.000000")
	}
	// Format: YYYYMMDD-HHMMSS-RRRRRRRR where R is random hex
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), hex.EncodeToString(b))
}
