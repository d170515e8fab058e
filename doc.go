/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package timetrace accumulates per-path call counts and elapsed time for named,
nestable scopes inside a single process.

# Overview

The package contains the core primitives:

  - Trace: one timing session. It owns a clock.Clock and the mapping from full
    scope path to ScopeMetrics.
  - Scope: one timed instance of a named unit of work, nested under the scope
    that was current when it began.
  - ScopeMetrics: the count and total duration accumulated for one full path.
  - Observer: lifecycle hooks for rendering collaborators (see the logobserver,
    report, promcollector and otelobserver packages).

# Ambient state

The current trace and the current scope travel in a context.Context. New and
BeginScope return derived contexts that carry the new trace or scope:

	ctx, tr := timetrace.New(ctx)
	defer tr.Dispose()

	ctx, s, err := timetrace.BeginScope(ctx, "Foo")
	if err != nil {
		return err
	}
	defer s.Close()

	_, bar, _ := timetrace.BeginScope(ctx, "Bar") // full path "Foo/Bar"
	bar.Close()

A goroutine handed a context sees the ambient state as it was when the context
was created. Scopes it opens produce contexts of its own and are never visible
to its siblings or to the goroutine that spawned it.

A context remembers the trace and scope it was created with. When that trace
has been disposed, Current resolves to the trace that was current before it;
when that scope has been closed, the ambient scope resolves to its nearest
still-open ancestor.

# No scope

BeginScope returns a nil *Scope, and the context unchanged, when no trace is
current or when instrumentation is disabled with SetEnabled(false). All Scope
methods are safe on a nil receiver, so callers never need to branch on it.

# Caller discipline

Scopes are expected to close innermost first. Closing a parent while one of
its children is still open does not fail: the child keeps its full path and
still records its measurement when it closes, but contexts holding the child
resolve past the closed parent to whatever that parent was nested under.
Disposing a trace closes every scope still open under it, newest first.
*/
package timetrace
