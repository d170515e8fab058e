/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package timetrace

import "chainguard.dev/timetrace/clock"

// Option configures a Trace.
type Option func(*options)

type options struct {
	clock     clock.Clock
	observers []Observer
	id        string
}

// WithClock makes the trace measure against c instead of a new clock.Stopwatch.
// The trace starts c when it is created and stops it when it is disposed.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithObserver adds an observer notified of the trace's lifecycle events.
// It may be given more than once; observers are notified in order.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithID overrides the generated trace ID.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}
