/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package format

import (
	"context"
	"testing"
	"time"

	"chainguard.dev/timetrace"
	"chainguard.dev/timetrace/clock"
	"github.com/stretchr/testify/require"
)

func TestDefaultMetricFormatter(t *testing.T) {
	tests := []struct {
		name string
		snap timetrace.Snapshot
		want string
	}{{
		name: "top level",
		snap: timetrace.Snapshot{Name: "Foo", Count: 2, TotalDuration: 1500 * time.Millisecond},
		want: "Scope: Foo, Total Duration: 1.5s, Count: 2",
	}, {
		name: "nested",
		snap: timetrace.Snapshot{Name: "Foo/Bar", Count: 1, TotalDuration: 250 * time.Microsecond},
		want: "Scope: Foo/Bar, Total Duration: 250µs, Count: 1",
	}, {
		name: "zero",
		snap: timetrace.Snapshot{Name: "Idle"},
		want: "Scope: Idle, Total Duration: 0s, Count: 0",
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := (DefaultMetricFormatter{}).FormatMetric(tc.snap); got != tc.want {
				t.Errorf("FormatMetric: got = %q, wanted = %q", got, tc.want)
			}
		})
	}
}

func TestDefaultScopeFormatter(t *testing.T) {
	ctx, tr := timetrace.New(context.Background(), timetrace.WithClock(clock.NewManual()))
	defer tr.Dispose()

	fooCtx, foo, err := timetrace.BeginScope(ctx, "Foo")
	require.NoError(t, err)
	_, bar, err := timetrace.BeginScope(fooCtx, "Bar")
	require.NoError(t, err)

	f := DefaultScopeFormatter{}
	if got := f.FormatCreated(bar); got != "Foo/Bar Created" {
		t.Errorf("FormatCreated: got = %q, wanted = %q", got, "Foo/Bar Created")
	}
	if got := f.FormatDisposed(foo); got != "Foo Disposed" {
		t.Errorf("FormatDisposed: got = %q, wanted = %q", got, "Foo Disposed")
	}
}

func TestMetricFunc(t *testing.T) {
	f := MetricFunc(func(m timetrace.Snapshot) string { return m.Name })
	if got := f.FormatMetric(timetrace.Snapshot{Name: "x"}); got != "x" {
		t.Errorf("FormatMetric: got = %q, wanted = %q", got, "x")
	}
}
