/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package clock

// Clock measures elapsed time while running.
type Clock interface {
	// Start starts or resumes measuring elapsed time.
	Start()
	// Stop stops measuring elapsed time. The reading is frozen until the next Start.
	Stop()
	// ElapsedNanoseconds returns the total time measured so far, in nanoseconds.
	ElapsedNanoseconds() int64
}
