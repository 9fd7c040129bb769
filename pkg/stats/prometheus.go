package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// collector adapts a Group to the prometheus.Collector interface.
// Descriptors are emitted per counter at collection time because the
// group's counter set grows lazily.
type collector struct {
	g *Group
}

// Collector returns a prometheus collector exposing every counter in the
// group as <group>_<counter>_total.
func (g *Group) Collector() prometheus.Collector {
	return &collector{g: g}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	// Unchecked collector: descriptors depend on counters created so far.
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for item := range c.g.counters.IterBuffered() {
		desc := prometheus.NewDesc(
			prometheus.BuildFQName(c.g.name, "", item.Key+"_total"),
			"atomickit counter "+item.Key,
			nil, nil,
		)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(item.Val.Value()))
	}
}
