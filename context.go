/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package timetrace

import "context"

// traceKey is the context key for the ambient trace
type traceKey struct{}

// scopeKey is the context key for the ambient scope of one trace.
// Keying by trace keeps scopes of a nested trace from shadowing the
// scopes of the trace it was created under.
type scopeKey struct {
	trace *Trace
}

// Current returns the ambient trace for ctx, or nil if there is none.
// Disposed traces are skipped in favor of the trace that was current when
// they were created.
func Current(ctx context.Context) *Trace {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(traceKey{}).(*Trace)
	for t != nil && t.Disposed() {
		t = t.previous
	}
	return t
}

// CurrentScope returns the ambient open scope of the ambient trace, or nil.
func CurrentScope(ctx context.Context) *Scope {
	t := Current(ctx)
	if t == nil {
		return nil
	}
	return t.currentScope(ctx)
}

// currentScope returns the innermost open scope of t recorded in ctx.
func (t *Trace) currentScope(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeKey{trace: t}).(*Scope)
	for s != nil && s.Closed() {
		s = s.parent
	}
	return s
}
