/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package timetrace

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Observer receives trace and scope lifecycle notifications.
// Calls are synchronous and their outcome is ignored by the trace.
// Implementations must be safe for concurrent use when scopes of one trace
// are opened from several goroutines.
type Observer interface {
	// TraceStarted is called once the trace is ambient in ctx and its clock is running.
	TraceStarted(ctx context.Context, t *Trace)
	// ScopeCreated is called after a scope has become the ambient scope of ctx.
	ScopeCreated(ctx context.Context, s *Scope)
	// ScopeDisposed is called after a scope's measurement was added to the trace metrics.
	ScopeDisposed(ctx context.Context, s *Scope)
	// TraceDisposed is called once the trace's clock is stopped and no scope is open.
	TraceDisposed(ctx context.Context, t *Trace)
}

// Funcs adapts plain functions to Observer. Nil fields are skipped.
type Funcs struct {
	OnTraceStarted  func(context.Context, *Trace)
	OnScopeCreated  func(context.Context, *Scope)
	OnScopeDisposed func(context.Context, *Scope)
	OnTraceDisposed func(context.Context, *Trace)
}

var _ Observer = Funcs{}

// Nop is an Observer that ignores every notification.
var Nop Observer = nopObserver{}

type nopObserver struct{}

func (nopObserver) TraceStarted(context.Context, *Trace)  {}
func (nopObserver) ScopeCreated(context.Context, *Scope)  {}
func (nopObserver) ScopeDisposed(context.Context, *Scope) {}
func (nopObserver) TraceDisposed(context.Context, *Trace) {}

// TraceStarted implements Observer.
func (f Funcs) TraceStarted(ctx context.Context, t *Trace) {
	if f.OnTraceStarted != nil {
		f.OnTraceStarted(ctx, t)
	}
}

// ScopeCreated implements Observer.
func (f Funcs) ScopeCreated(ctx context.Context, s *Scope) {
	if f.OnScopeCreated != nil {
		f.OnScopeCreated(ctx, s)
	}
}

// ScopeDisposed implements Observer.
func (f Funcs) ScopeDisposed(ctx context.Context, s *Scope) {
	if f.OnScopeDisposed != nil {
		f.OnScopeDisposed(ctx, s)
	}
}

// TraceDisposed implements Observer.
func (f Funcs) TraceDisposed(ctx context.Context, t *Trace) {
	if f.OnTraceDisposed != nil {
		f.OnTraceDisposed(ctx, t)
	}
}

// multiObserver fans notifications out to several observers
type multiObserver []Observer

// Multi combines observers into one. Scope notifications are delivered in
// order on the calling goroutine. TraceDisposed, which typically renders
// reports, is delivered to all observers in parallel and Multi waits for
// every one of them before returning.
func Multi(observers ...Observer) Observer {
	filtered := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			filtered = append(filtered, o)
		}
	}

	switch len(filtered) {
	case 0:
		return Nop
	case 1:
		return filtered[0]
	default:
		return filtered
	}
}

func (m multiObserver) TraceStarted(ctx context.Context, t *Trace) {
	for _, o := range m {
		o.TraceStarted(ctx, t)
	}
}

func (m multiObserver) ScopeCreated(ctx context.Context, s *Scope) {
	for _, o := range m {
		o.ScopeCreated(ctx, s)
	}
}

func (m multiObserver) ScopeDisposed(ctx context.Context, s *Scope) {
	for _, o := range m {
		o.ScopeDisposed(ctx, s)
	}
}

func (m multiObserver) TraceDisposed(ctx context.Context, t *Trace) {
	g := new(errgroup.Group)
	for _, o := range m {
		g.Go(func() error {
			o.TraceDisposed(ctx, t)
			return nil
		})
	}
	// Observers never fail; Wait only provides the join.
	_ = g.Wait()
}
