/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package timetrace

import (
	"sync"
	"time"
)

// ScopeMetrics accumulates the call count and total elapsed time of one scope path.
// Count and total are always updated together, so readers never observe one
// without the other.
type ScopeMetrics struct {
	name    string
	mu      sync.Mutex // Protects count and totalNs
	count   int64
	totalNs int64
}

// NewScopeMetrics creates an empty accumulator for the given path.
func NewScopeMetrics(name string) (*ScopeMetrics, error) {
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	return &ScopeMetrics{name: name}, nil
}

// Name returns the full scope path these metrics belong to.
func (m *ScopeMetrics) Name() string {
	return m.name
}

// Add records one more execution that took elapsedNs nanoseconds.
func (m *ScopeMetrics) Add(elapsedNs int64) error {
	if elapsedNs < 0 {
		return &ArgumentError{Param: "elapsedNs", Reason: "cannot be negative"}
	}

	m.mu.Lock()
	m.count++
	m.totalNs += elapsedNs
	m.mu.Unlock()
	return nil
}

// Count returns how many executions have been recorded.
func (m *ScopeMetrics) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// TotalNanoseconds returns the summed elapsed time of all recorded executions.
func (m *ScopeMetrics) TotalNanoseconds() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalNs
}

// TotalDuration returns TotalNanoseconds as a time.Duration.
func (m *ScopeMetrics) TotalDuration() time.Duration {
	return time.Duration(m.TotalNanoseconds())
}

// Snapshot returns the count and total as of a single update.
func (m *ScopeMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Name:          m.name,
		Count:         m.count,
		TotalDuration: time.Duration(m.totalNs),
	}
}

// Snapshot is an immutable copy of one ScopeMetrics entry.
type Snapshot struct {
	Name          string        `json:"name"`
	Count         int64         `json:"count"`
	TotalDuration time.Duration `json:"total_duration"`
}

// Average returns the mean duration per execution, or zero if nothing was recorded.
func (s Snapshot) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}
