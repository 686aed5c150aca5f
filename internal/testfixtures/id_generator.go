package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator produces deterministic, zero padded identifiers such as "user-003".
type IDGenerator struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{counters: make(map[string]int)}
}

// Next returns the next identifier for prefix. Each prefix counts independently.
func (g *IDGenerator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counters == nil {
		g.counters = make(map[string]int)
	}
	g.counters[prefix]++
	return fmt.Sprintf("%s-%03d", prefix, g.counters[prefix])
}

// NextFunc binds Next to prefix for constructor injection.
func (g *IDGenerator) NextFunc(prefix string) func() string {
	if g == nil {
		return func() string { return "" }
	}
	return func() string { return g.Next(prefix) }
}

// Reset clears every counter.
func (g *IDGenerator) Reset() {
	g.mu.Lock()
	g.counters = make(map[string]int)
	g.mu.Unlock()
}
