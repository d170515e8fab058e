/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package clock provides the elapsed-time capability that traces measure against.

A Clock only has to report how many nanoseconds it has been running. Readings
never decrease, are zero before the first Start, and are frozen between Stop
and the next Start.

Two implementations are provided:

  - Stopwatch: backed by the monotonic reading of time.Now, used by default.
  - Manual: advanced explicitly, for deterministic tests and simulations.

Usage:

	sw := clock.StartNew()
	doWork()
	sw.Stop()
	fmt.Println(sw.Elapsed())
*/
package clock
