package testfixtures

import (
	"sync"
	"time"
)

var referenceTime = time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC)

// ReferenceTime is the fixed "now" shared by fixtures: a Wednesday afternoon in UTC.
func ReferenceTime() time.Time {
	return referenceTime
}

// Clock is a controllable time source for reporting services.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now for constructor injection.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// AdvanceDays moves the clock by whole calendar days, keeping the wall time.
func (c *Clock) AdvanceDays(days int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.AddDate(0, 0, days)
	return c.current
}

// DaysAgo returns the clock time shifted back by whole calendar days.
func (c *Clock) DaysAgo(days int) time.Time {
	return c.Now().AddDate(0, 0, -days)
}
