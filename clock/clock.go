// Package clock provides the current Unix time to the custody engine.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time in Unix seconds.
type Clock interface {
	Now() int64
}

// System reads the wall clock.
type System struct{}

// Now returns time.Now in Unix seconds.
func (System) Now() int64 { return time.Now().Unix() }

// Manual is a settable clock for tests and simulations.
type Manual struct {
	mu  sync.Mutex
	now int64
}

// NewManual returns a Manual clock starting at now.
func NewManual(now int64) *Manual {
	return &Manual{now: now}
}

// Now returns the current manual time.
func (m *Manual) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to now.
func (m *Manual) Set(now int64) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// Advance moves the clock forward by d seconds and returns the new time.
func (m *Manual) Advance(d int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
	return m.now
}
