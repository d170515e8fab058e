/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package promcollector exposes timetrace metrics to Prometheus.
//
// A Collector publishes the accumulated metrics of one trace each time the
// registry it is registered with is gathered. Observer instead feeds
// process-wide counters and a duration histogram as scopes close, across every
// trace it is attached to.
//
// Neither serves an endpoint; registering with a registry that is scraped or
// pushed is up to the host program.
package promcollector

import (
	"strings"

	"chainguard.dev/timetrace"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector is a prometheus.Collector reporting the metrics of a single trace.
type Collector struct {
	trace    *timetrace.Trace
	calls    *prometheus.Desc
	duration *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// Option configures a Collector.
type Option func(*options)

type options struct {
	constLabels prometheus.Labels
}

// WithConstLabels attaches labels to every metric the collector reports,
// for example to tell several registered traces apart.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) {
		o.constLabels = labels
	}
}

// New creates a collector for t.
func New(t *timetrace.Trace, opts ...Option) *Collector {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Collector{
		trace: t,
		calls: prometheus.NewDesc(
			"timetrace_scope_calls_total",
			"Number of closed executions of each scope path.",
			[]string{"scope"}, o.constLabels,
		),
		duration: prometheus.NewDesc(
			"timetrace_scope_duration_seconds_total",
			"Total time spent in each scope path.",
			[]string{"scope"}, o.constLabels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.duration
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.trace.Metrics() {
		scope := scopeLabel(m.Name)
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(m.Count), scope)
		ch <- prometheus.MustNewConstMetric(c.duration, prometheus.CounterValue, m.TotalDuration.Seconds(), scope)
	}
}

// scopeLabel returns path as a label value. Prometheus rejects label values
// that are not valid UTF-8, so invalid bytes become U+FFFD.
func scopeLabel(path string) string {
	return strings.ToValidUTF8(path, "\uFFFD")
}
