package stats

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// RegisterOTel registers an asynchronous callback on meter that observes
// every counter currently in the group. Counters created after the call
// are not observed; register again after adding counters, or create them
// up front.
func RegisterOTel(meter metric.Meter, g *Group) (metric.Registration, error) {
	type bound struct {
		inst metric.Int64ObservableCounter
		c    *Counter
	}
	var bounds []bound
	var instruments []metric.Observable
	for item := range g.counters.IterBuffered() {
		inst, err := meter.Int64ObservableCounter(g.name + "." + item.Key)
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, bound{inst: inst, c: item.Val})
		instruments = append(instruments, inst)
	}
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, b := range bounds {
			o.ObserveInt64(b.inst, int64(b.c.Value()))
		}
		return nil
	}, instruments...)
}
