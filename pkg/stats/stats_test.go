package stats

import (
	"sync"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestCounterBasics(t *testing.T) {
	g := NewGroup("test")
	c := g.Counter("hits")
	c.Inc()
	c.Add(9)
	assert.Equal(t, uint64(10), c.Value())
	assert.Equal(t, uint64(10), c.ReadAndClear())
	assert.Equal(t, uint64(0), c.Value())
}

func TestCounterSameInstance(t *testing.T) {
	g := NewGroup("test")
	assert.Same(t, g.Counter("a"), g.Counter("a"))
	assert.NotSame(t, g.Counter("a"), g.Counter("b"))
}

func TestSnapshot(t *testing.T) {
	g := NewGroup("test")
	g.Counter("reads").Add(3)
	g.Counter("writes").Add(5)
	assert.Equal(t, map[string]uint64{"reads": 3, "writes": 5}, g.Snapshot())
}

func TestConcurrentCounters(t *testing.T) {
	g := NewGroup("test")
	pool, err := ants.NewPool(16)
	require.NoError(t, err)
	defer pool.Release()

	const workers, increments = 16, 5000
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		err := pool.Submit(func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				g.Counter("shared").Inc()
			}
		})
		require.NoError(t, err)
	}
	wg.Wait()
	assert.Equal(t, uint64(workers*increments), g.Counter("shared").Value())
}

func TestPrometheusCollector(t *testing.T) {
	g := NewGroup("atomickit")
	g.Counter("chunks").Add(42)
	g.Counter("dupes").Add(7)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(g.Collector()))

	families, err := reg.Gather()
	require.NoError(t, err)

	got := make(map[string]float64)
	for _, mf := range families {
		assert.Equal(t, dto.MetricType_COUNTER, mf.GetType())
		for _, m := range mf.GetMetric() {
			got[mf.GetName()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"atomickit_chunks_total": 42,
		"atomickit_dupes_total":  7,
	}, got)
}

func TestRegisterOTel(t *testing.T) {
	g := NewGroup("atomickit")
	g.Counter("ops").Add(1)

	meter := noop.NewMeterProvider().Meter("test")
	reg, err := RegisterOTel(meter, g)
	require.NoError(t, err)
	require.NoError(t, reg.Unregister())
}
