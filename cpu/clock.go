// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "time"

// Conventional rates in Hz
const (
	DefaultClockRate = 300 // instructions per second
	TimerRate        = 60  // delay and sound timer decrements per second
)

// A Clock converts elapsed wall-clock time into a whole number of fixed
// periods. Time that does not add up to a full period is carried over to
// the next call, so uneven ticks never drift.
type Clock struct {
	period  time.Duration
	elapsed time.Duration
}

// NewClock creates a clock that fires 'hz' times per second. Rates below 1
// are treated as 1.
func NewClock(hz int) Clock {
	if hz < 1 {
		hz = 1
	}
	return Clock{period: time.Second / time.Duration(hz)}
}

// Period returns the duration of one clock period.
func (c *Clock) Period() time.Duration {
	return c.period
}

// Elapsed returns the time accumulated toward the next period.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// Add accumulates elapsed time. Negative durations are ignored.
func (c *Clock) Add(d time.Duration) {
	if d > 0 {
		c.elapsed += d
	}
}

// Next consumes one period from the accumulated time if enough time has
// accumulated, and reports whether it did.
func (c *Clock) Next() bool {
	if c.elapsed < c.period {
		return false
	}
	c.elapsed -= c.period
	return true
}

// Advance adds elapsed time and returns how many whole periods are now
// due, consuming them.
func (c *Clock) Advance(d time.Duration) int {
	c.Add(d)
	n := 0
	for c.Next() {
		n++
	}
	return n
}

// Reset discards any accumulated time.
func (c *Clock) Reset() {
	c.elapsed = 0
}
