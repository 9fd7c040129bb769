// Package stats provides named lock-free counters built on the atomic
// primitives, with exporters for Prometheus and OpenTelemetry.
package stats

import (
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/srediag/atomickit/pkg/atomicops"
)

// Counter is a monotonic (except for ReadAndClear) 64-bit counter.
// The value is padded on both sides so hot counters in the same Group
// do not share a cache line.
type Counter struct {
	_ [7]uint64
	v atomicops.Value[uint64]
	_ [7]uint64
}

// Inc adds one.
func (c *Counter) Inc() { c.v.FetchAdd(1) }

// Add adds n.
func (c *Counter) Add(n uint64) { c.v.FetchAdd(n) }

// Value returns the current count.
func (c *Counter) Value() uint64 { return c.v.Load() }

// ReadAndClear returns the current count and resets it to zero, for
// delta-style reporting.
func (c *Counter) ReadAndClear() uint64 { return c.v.ReadAndClear() }

// Group is a named set of counters. Counters are created on first use
// and live for the lifetime of the group.
type Group struct {
	name     string
	counters cmap.ConcurrentMap[string, *Counter]
}

// NewGroup creates an empty counter group. The name prefixes exported
// metric names.
func NewGroup(name string) *Group {
	return &Group{
		name:     name,
		counters: cmap.New[*Counter](),
	}
}

// Counter returns the counter registered under name, creating it on
// first use.
func (g *Group) Counter(name string) *Counter {
	if c, ok := g.counters.Get(name); ok {
		return c
	}
	fresh := &Counter{}
	if !g.counters.SetIfAbsent(name, fresh) {
		c, _ := g.counters.Get(name)
		return c
	}
	return fresh
}

// Snapshot returns the current value of every counter in the group.
func (g *Group) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, g.counters.Count())
	for item := range g.counters.IterBuffered() {
		out[item.Key] = item.Val.Value()
	}
	return out
}
