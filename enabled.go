/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package timetrace

import "sync/atomic"

// disabled is inverted so the zero value leaves instrumentation on.
var disabled atomic.Bool

// SetEnabled turns scope creation on or off for the whole process.
// While disabled, BeginScope returns no scope without consulting the context.
func SetEnabled(enabled bool) {
	disabled.Store(!enabled)
}

// Enabled reports whether scope creation is turned on.
func Enabled() bool {
	return !disabled.Load()
}
