/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package clock

import (
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called.
// Advances made while the clock is stopped are discarded, matching the
// frozen-while-stopped contract.
type Manual struct {
	mu      sync.Mutex
	running bool
	elapsed time.Duration
}

var _ Clock = (*Manual)(nil)

// NewManual returns a stopped Manual clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Start implements Clock.
func (m *Manual) Start() {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()
}

// Stop implements Clock.
func (m *Manual) Stop() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

// Advance moves the clock forward by d if it is running.
// Non-positive durations are ignored so readings never decrease.
func (m *Manual) Advance(d time.Duration) {
	if d <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.elapsed += d
	}
}

// ElapsedNanoseconds implements Clock.
func (m *Manual) ElapsedNanoseconds() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(m.elapsed)
}
