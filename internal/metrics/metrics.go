// Package metrics exposes Prometheus instruments fed by store
// notifications and editor rejections.
//
// Instruments are registered on a caller-supplied registry, never on the
// global default one, so several stores (one per scenario, for example)
// can be measured side by side.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/gantry/internal/editor"
	"github.com/roach88/gantry/internal/model"
	"github.com/roach88/gantry/internal/store"
)

const namespace = "gantry"

// Collector holds the instruments for one store.
type Collector struct {
	events   *prometheus.CounterVec
	orders   *prometheus.GaugeVec
	rejected *prometheus.CounterVec
}

// NewCollector creates the instruments and registers them on reg. Every
// rejection code starts at zero so the family is exposed before the first
// rejection. It panics if reg already holds instruments with the same names.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_events_total",
			Help:      "Store notifications delivered, by event type.",
		}, []string{"type"}),
		orders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "work_orders",
			Help:      "Work orders currently in the store, by status.",
		}, []string{"status"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_rejected_total",
			Help:      "Create and edit submissions rejected by validation, by code.",
		}, []string{"code"}),
	}
	reg.MustRegister(c.events, c.orders, c.rejected)
	for _, code := range editor.Codes {
		c.rejected.WithLabelValues(string(code))
	}
	return c
}

// NewRegistry returns an empty registry with a Collector registered.
func NewRegistry() (*prometheus.Registry, *Collector) {
	reg := prometheus.NewRegistry()
	return reg, NewCollector(reg)
}

// Attach subscribes the collector to s and returns the unsubscribe
// function. The status gauge is populated at once from the initial
// snapshot.
func (c *Collector) Attach(s *store.Store) (detach func()) {
	return s.Subscribe(c.Observe)
}

// Observe counts ev and recomputes the status gauge from its snapshot.
func (c *Collector) Observe(ev store.Event) {
	c.events.WithLabelValues(string(ev.Type)).Inc()

	counts := make(map[model.Status]int, len(model.Statuses))
	for _, o := range ev.WorkOrders {
		counts[o.Status]++
	}
	c.orders.Reset()
	for _, st := range model.Statuses {
		c.orders.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

// ObserveRejection counts a rejected submission.
func (c *Collector) ObserveRejection(code string) {
	c.rejected.WithLabelValues(code).Inc()
}

// Rejections returns how many submissions were rejected with code.
func (c *Collector) Rejections(code string) int {
	var m dto.Metric
	if err := c.rejected.WithLabelValues(code).Write(&m); err != nil {
		return 0
	}
	return int(m.GetCounter().GetValue())
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
