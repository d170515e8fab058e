/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package format turns trace snapshots and scopes into human readable messages.
package format

import (
	"fmt"

	"chainguard.dev/timetrace"
)

// MetricFormatter formats the accumulated metrics of one scope path.
type MetricFormatter interface {
	FormatMetric(m timetrace.Snapshot) string
}

// ScopeFormatter formats scope creation and disposal messages.
type ScopeFormatter interface {
	FormatCreated(s *timetrace.Scope) string
	FormatDisposed(s *timetrace.Scope) string
}

// DefaultMetricFormatter renders "Scope: <path>, Total Duration: <d>, Count: <n>".
type DefaultMetricFormatter struct{}

var _ MetricFormatter = DefaultMetricFormatter{}

// FormatMetric implements MetricFormatter.
func (DefaultMetricFormatter) FormatMetric(m timetrace.Snapshot) string {
	return fmt.Sprintf("Scope: %s, Total Duration: %v, Count: %d", m.Name, m.TotalDuration, m.Count)
}

// DefaultScopeFormatter renders "<path> Created" and "<path> Disposed".
type DefaultScopeFormatter struct{}

var _ ScopeFormatter = DefaultScopeFormatter{}

// FormatCreated implements ScopeFormatter.
func (DefaultScopeFormatter) FormatCreated(s *timetrace.Scope) string {
	return s.Name() + " Created"
}

// FormatDisposed implements ScopeFormatter.
func (DefaultScopeFormatter) FormatDisposed(s *timetrace.Scope) string {
	return s.Name() + " Disposed"
}

// MetricFunc adapts a function to MetricFormatter.
type MetricFunc func(timetrace.Snapshot) string

// FormatMetric implements MetricFormatter.
func (f MetricFunc) FormatMetric(m timetrace.Snapshot) string {
	return f(m)
}
