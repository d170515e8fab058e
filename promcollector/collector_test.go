/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promcollector

import (
	"context"
	"strings"
	"testing"
	"time"

	"chainguard.dev/timetrace"
	"chainguard.dev/timetrace/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// runTrace runs Foo { Bar x2 } with 2ms per Bar and returns the trace.
func runTrace(t *testing.T, opts ...timetrace.Option) *timetrace.Trace {
	t.Helper()
	mc := clock.NewManual()
	ctx, tr := timetrace.New(context.Background(), append([]timetrace.Option{timetrace.WithClock(mc)}, opts...)...)

	fooCtx, foo, err := timetrace.BeginScope(ctx, "Foo")
	require.NoError(t, err)
	for range 2 {
		_, bar, err := timetrace.BeginScope(fooCtx, "Bar")
		require.NoError(t, err)
		mc.Advance(2 * time.Millisecond)
		bar.Close()
	}
	foo.Close()
	return tr
}

// labelValue returns the value of the named label of m, or "".
func labelValue(m *dto.Metric, name string) string {
	for _, label := range m.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}

func TestCollector(t *testing.T) {
	tr := runTrace(t)
	defer tr.Dispose()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(New(tr)))

	expected := `
# HELP timetrace_scope_calls_total Number of closed executions of each scope path.
# TYPE timetrace_scope_calls_total counter
timetrace_scope_calls_total{scope="Foo"} 1
timetrace_scope_calls_total{scope="Foo/Bar"} 2
# HELP timetrace_scope_duration_seconds_total Total time spent in each scope path.
# TYPE timetrace_scope_duration_seconds_total counter
timetrace_scope_duration_seconds_total{scope="Foo"} 0.004
timetrace_scope_duration_seconds_total{scope="Foo/Bar"} 0.004
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected)); err != nil {
		t.Errorf("GatherAndCompare: %v", err)
	}
}

func TestCollectorConstLabels(t *testing.T) {
	tr := runTrace(t)
	defer tr.Dispose()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(New(tr, WithConstLabels(prometheus.Labels{"trace": "a"}))))

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if got := labelValue(metric, "trace"); got != "a" {
				t.Errorf("%s trace label: got = %q, wanted = %q", family.GetName(), got, "a")
			}
		}
	}
}

func TestCollectorTracksLiveTrace(t *testing.T) {
	mc := clock.NewManual()
	ctx, tr := timetrace.New(context.Background(), timetrace.WithClock(mc))
	defer tr.Dispose()

	c := New(tr)
	if got := testutil.CollectAndCount(c); got != 0 {
		t.Errorf("metrics before any scope closed: got = %d, wanted = 0", got)
	}

	_, s, err := timetrace.BeginScope(ctx, "Foo")
	require.NoError(t, err)
	s.Close()

	if got := testutil.CollectAndCount(c, "timetrace_scope_calls_total"); got != 1 {
		t.Errorf("call series after close: got = %d, wanted = 1", got)
	}
}

func TestObserver(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	obs := NewObserver(reg)

	runTrace(t, timetrace.WithObserver(obs)).Dispose()

	if got := testutil.ToFloat64(obs.closed.WithLabelValues("Foo/Bar")); got != 2 {
		t.Errorf("Foo/Bar closed: got = %v, wanted = 2", got)
	}
	if got := testutil.ToFloat64(obs.closed.WithLabelValues("Foo")); got != 1 {
		t.Errorf("Foo closed: got = %v, wanted = 1", got)
	}
	if got := testutil.ToFloat64(obs.traces); got != 1 {
		t.Errorf("traces disposed: got = %v, wanted = 1", got)
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var sampleCount uint64
	var sampleSum float64
	for _, family := range families {
		if family.GetName() != "timetrace_scope_duration_seconds" {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelValue(metric, "scope") == "Foo/Bar" {
				sampleCount = metric.GetHistogram().GetSampleCount()
				sampleSum = metric.GetHistogram().GetSampleSum()
			}
		}
	}
	if sampleCount != 2 {
		t.Errorf("histogram count: got = %d, wanted = 2", sampleCount)
	}
	if sampleSum < 0.0039 || sampleSum > 0.0041 {
		t.Errorf("histogram sum: got = %v, wanted = 0.004", sampleSum)
	}
}

// closeInvalidScope closes one scope whose name is not valid UTF-8.
func closeInvalidScope(t *testing.T, opts ...timetrace.Option) *timetrace.Trace {
	t.Helper()
	ctx, tr := timetrace.New(context.Background(), append([]timetrace.Option{timetrace.WithClock(clock.NewManual())}, opts...)...)

	_, s, err := timetrace.BeginScope(ctx, "bad\xff")
	require.NoError(t, err)
	s.Close()
	return tr
}

func TestCollectorInvalidUTF8Scope(t *testing.T) {
	tr := closeInvalidScope(t)
	defer tr.Dispose()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(New(tr)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 2)

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if got, want := labelValue(metric, "scope"), "bad\uFFFD"; got != want {
				t.Errorf("%s scope label: got = %q, wanted = %q", family.GetName(), got, want)
			}
		}
	}
}

func TestObserverInvalidUTF8Scope(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	obs := NewObserver(reg)

	closeInvalidScope(t, timetrace.WithObserver(obs)).Dispose()

	if got := testutil.ToFloat64(obs.closed.WithLabelValues("bad\uFFFD")); got != 1 {
		t.Errorf("sanitized scope closed: got = %v, wanted = 1", got)
	}
	if _, err := reg.Gather(); err != nil {
		t.Errorf("Gather: %v", err)
	}
}
