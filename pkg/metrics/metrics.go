// Package metrics exports Prometheus metrics for native list stores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/liststore/pkg/native"
)

const namespace = "liststore"

// Collector counts the changes applied to observed stores, labelled by
// the name given to Observe.
type Collector struct {
	splices *prometheus.CounterVec
	added   *prometheus.CounterVec
	removed *prometheus.CounterVec
	items   *prometheus.GaugeVec
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		splices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splices_total",
			Help:      "Number of change notifications emitted by the store.",
		}, []string{"store"}),
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_added_total",
			Help:      "Number of items inserted into the store.",
		}, []string{"store"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_removed_total",
			Help:      "Number of items removed from the store.",
		}, []string{"store"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Current number of items in the store.",
		}, []string{"store"}),
	}
	for _, collector := range []prometheus.Collector{c.splices, c.added, c.removed, c.items} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe records every change to store under name until the returned
// function is called.
func (c *Collector) Observe(name string, store *native.ListStore) func() {
	c.items.WithLabelValues(name).Set(float64(store.NItems()))
	return store.AddListener(func(change native.ItemsChanged) {
		c.splices.WithLabelValues(name).Inc()
		c.added.WithLabelValues(name).Add(float64(change.Added))
		c.removed.WithLabelValues(name).Add(float64(change.Removed))
		c.items.WithLabelValues(name).Add(float64(change.Added - change.Removed))
	})
}
