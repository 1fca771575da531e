// Package metrics exports run progress as Prometheus metrics
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evolab/internal/ga"
)

const namespace = "evolab"

// Collector holds the per-scenario gauges and run counters
type Collector struct {
	generation *prometheus.GaugeVec
	best       *prometheus.GaugeVec
	mean       *prometheus.GaugeVec
	runs       *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		generation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation",
			Help:      "Current generation of the running scenario.",
		}, []string{"scenario"}),
		best: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness",
			Help:      "Fitness of the best ranked genome in the current generation.",
		}, []string{"scenario"}),
		mean: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_fitness",
			Help:      "Mean fitness of the current generation.",
		}, []string{"scenario"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs by stop reason.",
		}, []string{"scenario", "reason"}),
	}

	for _, m := range []prometheus.Collector{c.generation, c.best, c.mean, c.runs} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe updates the gauges of scenario from one snapshot
func (c *Collector) Observe(scenario string, generation int, best, mean float64) {
	c.generation.WithLabelValues(scenario).Set(float64(generation))
	c.best.WithLabelValues(scenario).Set(best)
	c.mean.WithLabelValues(scenario).Set(mean)
}

// RunFinished counts a finished run
func (c *Collector) RunFinished(scenario string, reason ga.StopReason) {
	c.runs.WithLabelValues(scenario, reason.String()).Inc()
}

// Observer adapts a Collector to an engine observer
func Observer[R any](c *Collector, scenario string) ga.Observer[R] {
	return func(s ga.Snapshot[R]) {
		c.Observe(scenario, s.Generation, s.Best.Fitness, s.Mean)
	}
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
