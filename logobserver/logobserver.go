/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package logobserver writes trace lifecycle events and final metrics to a
// clog logger.
//
// Messages take the form "[TimeTrace] <TITLE> - <message>" where the title is
// TRACE, SCOPE or METRIC:
//
//	[TimeTrace] TRACE - Created
//	[TimeTrace] SCOPE - Foo Created
//	[TimeTrace] SCOPE - Foo Disposed
//	[TimeTrace] METRIC - Scope: Foo, Total Duration: 1.2ms, Count: 1
//	[TimeTrace] TRACE - Disposed. Total Duration: 1.5ms
//
// Each record also carries the trace ID, and the scope path where one applies,
// as structured attributes.
package logobserver

import (
	"context"
	"fmt"

	"chainguard.dev/timetrace"
	"chainguard.dev/timetrace/format"
	"github.com/chainguard-dev/clog"
)

// DefaultPrefix is prepended to every message.
const DefaultPrefix = "[TimeTrace]"

// Observer logs trace and scope lifecycle events.
type Observer struct {
	logger  *clog.Logger
	metrics format.MetricFormatter
	scopes  format.ScopeFormatter
	prefix  string
}

var _ timetrace.Observer = (*Observer)(nil)

// Option configures an Observer.
type Option func(*Observer)

// WithLogger logs to l instead of the logger carried by the trace's context.
func WithLogger(l *clog.Logger) Option {
	return func(o *Observer) {
		o.logger = l
	}
}

// WithMetricFormatter replaces the metric formatter.
// A nil formatter turns off the per-scope metric messages on dispose.
func WithMetricFormatter(f format.MetricFormatter) Option {
	return func(o *Observer) {
		o.metrics = f
	}
}

// WithScopeFormatter replaces the scope formatter.
// A nil formatter turns off scope created and disposed messages.
func WithScopeFormatter(f format.ScopeFormatter) Option {
	return func(o *Observer) {
		o.scopes = f
	}
}

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(o *Observer) {
		o.prefix = prefix
	}
}

// New creates an Observer using the default formatters.
func New(opts ...Option) *Observer {
	o := &Observer{
		metrics: format.DefaultMetricFormatter{},
		scopes:  format.DefaultScopeFormatter{},
		prefix:  DefaultPrefix,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TraceStarted implements timetrace.Observer.
func (o *Observer) TraceStarted(ctx context.Context, t *timetrace.Trace) {
	o.write(ctx, t, "TRACE", "Created")
}

// ScopeCreated implements timetrace.Observer.
func (o *Observer) ScopeCreated(ctx context.Context, s *timetrace.Scope) {
	if o.scopes == nil {
		return
	}
	o.write(ctx, s.Trace(), "SCOPE", o.scopes.FormatCreated(s), "scope", s.Name())
}

// ScopeDisposed implements timetrace.Observer.
func (o *Observer) ScopeDisposed(ctx context.Context, s *timetrace.Scope) {
	if o.scopes == nil {
		return
	}
	o.write(ctx, s.Trace(), "SCOPE", o.scopes.FormatDisposed(s),
		"scope", s.Name(),
		"duration", s.Duration())
}

// TraceDisposed implements timetrace.Observer.
func (o *Observer) TraceDisposed(ctx context.Context, t *timetrace.Trace) {
	if o.metrics != nil {
		for _, m := range t.Metrics() {
			o.write(ctx, t, "METRIC", o.metrics.FormatMetric(m),
				"scope", m.Name,
				"count", m.Count,
				"total_duration", m.TotalDuration)
		}
	}
	o.write(ctx, t, "TRACE", fmt.Sprintf("Disposed. Total Duration: %v", t.TotalDuration()),
		"total_duration", t.TotalDuration())
}

func (o *Observer) write(ctx context.Context, t *timetrace.Trace, title, message string, args ...any) {
	logger := o.logger
	if logger == nil {
		logger = clog.FromContext(ctx)
	}
	msg := fmt.Sprintf("%s - %s", title, message)
	if o.prefix != "" {
		msg = o.prefix + " " + msg
	}
	logger.With("trace_id", t.ID()).Info(msg, args...)
}
