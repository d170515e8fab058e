/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"context"
	"io"
	"sync"

	"chainguard.dev/timetrace"
	"github.com/chainguard-dev/clog"
)

// Observer returns a timetrace.Observer that renders every disposed trace
// with gen and writes the result to w. Writes from concurrently disposed
// traces are serialized.
func Observer(w io.Writer, gen Generator) timetrace.Observer {
	var mu sync.Mutex
	return timetrace.Funcs{
		OnTraceDisposed: func(ctx context.Context, t *timetrace.Trace) {
			out, err := gen(New(t))
			if err != nil {
				clog.FromContext(ctx).Warn("failed to render trace report", "trace_id", t.ID(), "error", err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			if _, err := io.WriteString(w, out); err != nil {
				clog.FromContext(ctx).Warn("failed to write trace report", "trace_id", t.ID(), "error", err)
			}
		},
	}
}
