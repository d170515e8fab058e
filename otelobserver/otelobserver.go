/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package otelobserver mirrors timetrace traces and scopes into OpenTelemetry.
//
// Every trace becomes a "timetrace.trace" span and every scope a child span of
// the scope it is nested under, named after the scope. Closed scopes are also
// counted and timed with the timetrace.scope.calls and
// timetrace.scope.duration instruments.
//
// The observer uses the global tracer and meter providers unless others are
// given; exporting is left to whatever providers the host configured.
package otelobserver

import (
	"context"
	"log/slog"
	"sync"

	"chainguard.dev/timetrace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "chainguard.dev/timetrace"

// Observer creates spans and records metrics for trace lifecycle events.
type Observer struct {
	tracer   oteltrace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram

	// *timetrace.Trace or *timetrace.Scope -> oteltrace.Span, removed when ended
	spans sync.Map
}

var _ timetrace.Observer = (*Observer)(nil)

// Option configures an Observer.
type Option func(*options)

type options struct {
	tp oteltrace.TracerProvider
	mp metric.MeterProvider
}

// WithTracerProvider uses tp instead of the global tracer provider.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(o *options) {
		o.tp = tp
	}
}

// WithMeterProvider uses mp instead of the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.mp = mp
	}
}

// New creates an Observer. If an instrument cannot be created, a warning is
// logged and a no-op instrument is used in its place.
func New(opts ...Option) *Observer {
	o := options{
		tp: otel.GetTracerProvider(),
		mp: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.mp.Meter(instrumentationName, metric.WithInstrumentationVersion("1.0.0"))

	calls, err := meter.Int64Counter("timetrace.scope.calls",
		metric.WithDescription("The number of closed scopes"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create scope call counter, metrics will be disabled", "error", err)
		calls = noop.Int64Counter{}
	}

	duration, err := meter.Float64Histogram("timetrace.scope.duration",
		metric.WithDescription("The duration of closed scopes"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("Failed to create scope duration histogram, metrics will be disabled", "error", err)
		duration = noop.Float64Histogram{}
	}

	return &Observer{
		tracer:   o.tp.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0")),
		calls:    calls,
		duration: duration,
	}
}

// TraceStarted implements timetrace.Observer.
func (o *Observer) TraceStarted(ctx context.Context, t *timetrace.Trace) {
	_, span := o.tracer.Start(ctx, "timetrace.trace",
		oteltrace.WithAttributes(attribute.String("timetrace.trace_id", t.ID())))
	o.spans.Store(t, span)
}

// ScopeCreated implements timetrace.Observer.
func (o *Observer) ScopeCreated(ctx context.Context, s *timetrace.Scope) {
	if parent, ok := o.parentSpan(s); ok {
		ctx = oteltrace.ContextWithSpan(ctx, parent)
	}
	_, span := o.tracer.Start(ctx, s.ShortName(), oteltrace.WithAttributes(
		attribute.String("timetrace.trace_id", s.Trace().ID()),
		attribute.String("timetrace.scope", s.Name()),
	))
	o.spans.Store(s, span)
}

// parentSpan returns the span of the nearest ancestor scope that still has
// one, falling back to the span of the scope's trace.
func (o *Observer) parentSpan(s *timetrace.Scope) (oteltrace.Span, bool) {
	for p := s.Parent(); p != nil; p = p.Parent() {
		if v, ok := o.spans.Load(p); ok {
			return v.(oteltrace.Span), true
		}
	}
	if v, ok := o.spans.Load(s.Trace()); ok {
		return v.(oteltrace.Span), true
	}
	return nil, false
}

// ScopeDisposed implements timetrace.Observer.
func (o *Observer) ScopeDisposed(ctx context.Context, s *timetrace.Scope) {
	if v, ok := o.spans.LoadAndDelete(s); ok {
		span := v.(oteltrace.Span)
		span.SetAttributes(attribute.Int64("timetrace.duration_ns", int64(s.Duration())))
		span.End()
	}

	attrs := metric.WithAttributes(attribute.String("scope", s.Name()))
	o.calls.Add(ctx, 1, attrs)
	o.duration.Record(ctx, s.Duration().Seconds(), attrs)
}

// TraceDisposed implements timetrace.Observer.
func (o *Observer) TraceDisposed(_ context.Context, t *timetrace.Trace) {
	v, ok := o.spans.LoadAndDelete(t)
	if !ok {
		return
	}
	span := v.(oteltrace.Span)
	span.SetAttributes(
		attribute.Int64("timetrace.duration_ns", int64(t.TotalDuration())),
		attribute.Int("timetrace.scope_paths", len(t.Metrics())),
	)
	span.End()
}
