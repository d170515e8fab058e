/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"chainguard.dev/timetrace"
	"chainguard.dev/timetrace/clock"
	"chainguard.dev/timetrace/report"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// sampleTrace runs Foo { Bar x2, Baz } plus a sibling Foo-x for a total of 10ms.
func sampleTrace(t *testing.T, opts ...timetrace.Option) *timetrace.Trace {
	t.Helper()
	mc := clock.NewManual()
	ctx, tr := timetrace.New(context.Background(),
		append([]timetrace.Option{timetrace.WithID("sample"), timetrace.WithClock(mc)}, opts...)...)

	begin := func(ctx context.Context, name string) (context.Context, *timetrace.Scope) {
		ctx, s, err := timetrace.BeginScope(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, s)
		return ctx, s
	}

	fooCtx, foo := begin(ctx, "Foo")
	for range 2 {
		_, bar := begin(fooCtx, "Bar")
		mc.Advance(2 * time.Millisecond)
		bar.Close()
	}
	_, baz := begin(fooCtx, "Baz")
	mc.Advance(time.Millisecond)
	baz.Close()
	mc.Advance(time.Millisecond)
	foo.Close()

	_, other := begin(ctx, "Foo-x")
	mc.Advance(4 * time.Millisecond)
	other.Close()

	tr.Dispose()
	return tr
}

func TestNew(t *testing.T) {
	r := report.New(sampleTrace(t))

	want := &report.Report{
		TraceID:          "sample",
		TotalNanoseconds: int64(10 * time.Millisecond),
		Total:            "10ms",
		Scopes: []report.Scope{{
			Path: "Foo", Name: "Foo", Depth: 0, Count: 1,
			TotalNanoseconds: int64(6 * time.Millisecond), Total: "6ms", Average: "6ms",
		}, {
			Path: "Foo-x", Name: "Foo-x", Depth: 0, Count: 1,
			TotalNanoseconds: int64(4 * time.Millisecond), Total: "4ms", Average: "4ms",
		}, {
			Path: "Foo/Bar", Name: "Bar", Depth: 1, Count: 2,
			TotalNanoseconds: int64(4 * time.Millisecond), Total: "4ms", Average: "2ms",
		}, {
			Path: "Foo/Baz", Name: "Baz", Depth: 1, Count: 1,
			TotalNanoseconds: int64(time.Millisecond), Total: "1ms", Average: "1ms",
		}},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	if got := r.Share(r.Scopes[0]); got != 0.6 {
		t.Errorf("share: got = %v, wanted = 0.6", got)
	}
}

func TestShareWithoutTime(t *testing.T) {
	r := &report.Report{}
	if got := r.Share(report.Scope{TotalNanoseconds: 5}); got != 0 {
		t.Errorf("share: got = %v, wanted = 0", got)
	}
}

func TestTable(t *testing.T) {
	out, err := report.Table(report.New(sampleTrace(t)))
	require.NoError(t, err)
	t.Logf("table:\n%s", out)

	for _, want := range []string{"## Trace sample (10ms)", "Scope", "Calls", "Foo/Bar", "Foo/Baz", "Foo-x", "6ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestTree(t *testing.T) {
	out, err := report.Tree(report.New(sampleTrace(t)))
	require.NoError(t, err)
	t.Logf("tree:\n%s", out)

	for _, want := range []string{"Share", "  Bar", "  Baz", "60.0%", "40.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q", want)
		}
	}

	// Children follow their parent, before the Foo-x sibling.
	foo := strings.Index(out, "Foo")
	bar := strings.Index(out, "Bar")
	fooX := strings.Index(out, "Foo-x")
	if foo < 0 || bar < foo || fooX < bar {
		t.Errorf("tree order: got Foo=%d Bar=%d Foo-x=%d, wanted increasing", foo, bar, fooX)
	}
}

func TestJSON(t *testing.T) {
	r := report.New(sampleTrace(t))
	out, err := report.JSON(r)
	require.NoError(t, err)

	var got report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	if diff := cmp.Diff(r, &got); diff != "" {
		t.Errorf("json round trip mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, `"trace_id": "sample"`) {
		t.Errorf("json: got = %s, wanted trace_id field", out)
	}
}

func TestYAML(t *testing.T) {
	r := report.New(sampleTrace(t))
	out, err := report.YAML(r)
	require.NoError(t, err)

	var got report.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	if diff := cmp.Diff(r, &got); diff != "" {
		t.Errorf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, "trace_id: sample") {
		t.Errorf("yaml: got = %s, wanted trace_id field", out)
	}
}

func TestEmptyTrace(t *testing.T) {
	_, tr := timetrace.New(context.Background(), timetrace.WithID("empty"), timetrace.WithClock(clock.NewManual()))
	tr.Dispose()
	r := report.New(tr)

	for name, gen := range report.Generators {
		t.Run(name, func(t *testing.T) {
			out, err := gen(r)
			require.NoError(t, err)
			if !strings.Contains(out, "empty") {
				t.Errorf("output: got = %q, wanted it to name the trace", out)
			}
		})
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "table"},
		{name: "tree"},
		{name: "json"},
		{name: " YAML "},
		{name: "xml", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := report.ByName(tc.name)
			if (err != nil) != tc.wantErr {
				t.Fatalf("error: got = %v, wanted error = %v", err, tc.wantErr)
			}
			if !tc.wantErr && g == nil {
				t.Error("generator: got = nil, wanted = non-nil")
			}
			if tc.wantErr && !strings.Contains(err.Error(), "table, tree, yaml") {
				t.Errorf("error: got = %v, wanted it to list the formats", err)
			}
		})
	}
}

func TestSchema(t *testing.T) {
	s := report.Schema()
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var doc struct {
		Type       string                     `json:"type"`
		Required   []string                   `json:"required"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	if doc.Type != "object" {
		t.Errorf("type: got = %q, wanted = %q", doc.Type, "object")
	}
	for _, field := range []string{"trace_id", "total_ns", "total", "scopes"} {
		if _, ok := doc.Properties[field]; !ok {
			t.Errorf("properties: missing %q", field)
		}
	}
	if diff := cmp.Diff([]string{"trace_id", "total_ns", "scopes"}, doc.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}
}

func TestObserver(t *testing.T) {
	var buf bytes.Buffer
	sampleTrace(t, timetrace.WithObserver(report.Observer(&buf, report.JSON)))

	var got report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if got.TraceID != "sample" {
		t.Errorf("trace id: got = %q, wanted = %q", got.TraceID, "sample")
	}
	if len(got.Scopes) != 4 {
		t.Errorf("scopes: got = %d, wanted = 4", len(got.Scopes))
	}
}
