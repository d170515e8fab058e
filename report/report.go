/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"strings"
	"time"

	"chainguard.dev/timetrace"
)

// Report is a point-in-time copy of a trace's metrics.
type Report struct {
	TraceID          string  `json:"trace_id" yaml:"trace_id" jsonschema:"required,description=Identifier of the trace"`
	TotalNanoseconds int64   `json:"total_ns" yaml:"total_ns" jsonschema:"required,description=Time measured by the trace clock in nanoseconds"`
	Total            string  `json:"total" yaml:"total" jsonschema:"description=Human readable total duration"`
	Scopes           []Scope `json:"scopes" yaml:"scopes" jsonschema:"required,description=Metrics per full scope path sorted by path"`
}

// Scope is the accumulated metrics of one full scope path.
type Scope struct {
	Path             string `json:"path" yaml:"path" jsonschema:"required,description=Full scope path"`
	Name             string `json:"name" yaml:"name" jsonschema:"description=Last segment of the path"`
	Depth            int    `json:"depth" yaml:"depth" jsonschema:"description=Number of ancestors"`
	Count            int64  `json:"count" yaml:"count" jsonschema:"required,minimum=0"`
	TotalNanoseconds int64  `json:"total_ns" yaml:"total_ns" jsonschema:"required,minimum=0"`
	Total            string `json:"total" yaml:"total"`
	Average          string `json:"average" yaml:"average"`
}

// New captures the current metrics of t.
func New(t *timetrace.Trace) *Report {
	total := t.TotalDuration()
	r := &Report{
		TraceID:          t.ID(),
		TotalNanoseconds: int64(total),
		Total:            total.String(),
	}
	for _, m := range t.Metrics() {
		r.Scopes = append(r.Scopes, newScope(m))
	}
	return r
}

func newScope(m timetrace.Snapshot) Scope {
	name := m.Name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return Scope{
		Path:             m.Name,
		Name:             name,
		Depth:            strings.Count(m.Name, "/"),
		Count:            m.Count,
		TotalNanoseconds: int64(m.TotalDuration),
		Total:            m.TotalDuration.String(),
		Average:          m.Average().String(),
	}
}

// TotalDuration returns the trace duration of the report.
func (r *Report) TotalDuration() time.Duration {
	return time.Duration(r.TotalNanoseconds)
}

// Share returns the fraction of the trace duration spent in s, or zero when
// the trace measured no time.
func (r *Report) Share(s Scope) float64 {
	if r.TotalNanoseconds <= 0 {
		return 0
	}
	return float64(s.TotalNanoseconds) / float64(r.TotalNanoseconds)
}
