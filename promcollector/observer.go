/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promcollector

import (
	"context"

	"chainguard.dev/timetrace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Observer records closed scopes into process-wide metrics.
type Observer struct {
	closed   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	traces   prometheus.Counter
}

var _ timetrace.Observer = (*Observer)(nil)

// NewObserver registers the observer's metrics with reg. A nil reg uses
// prometheus.DefaultRegisterer.
// Registering twice with the same registry panics, as with promauto.
func NewObserver(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Observer{
		closed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timetrace_scopes_closed_total",
				Help: "Total number of closed scopes per scope path",
			},
			[]string{"scope"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "timetrace_scope_duration_seconds",
				Help:    "Duration of closed scopes per scope path",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"scope"},
		),
		traces: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "timetrace_traces_disposed_total",
				Help: "Total number of disposed traces",
			},
		),
	}
}

// TraceStarted implements timetrace.Observer.
func (o *Observer) TraceStarted(context.Context, *timetrace.Trace) {}

// ScopeCreated implements timetrace.Observer.
func (o *Observer) ScopeCreated(context.Context, *timetrace.Scope) {}

// ScopeDisposed implements timetrace.Observer.
func (o *Observer) ScopeDisposed(_ context.Context, s *timetrace.Scope) {
	scope := scopeLabel(s.Name())
	o.closed.WithLabelValues(scope).Inc()
	o.duration.WithLabelValues(scope).Observe(s.Duration().Seconds())
}

// TraceDisposed implements timetrace.Observer.
func (o *Observer) TraceDisposed(context.Context, *timetrace.Trace) {
	o.traces.Inc()
}
