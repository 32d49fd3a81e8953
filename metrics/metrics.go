package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collector records valuation and risk activity. It satisfies pricing.Observer.
type Collector struct {
	valuations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	risk       *prometheus.CounterVec
}

// NewCollector registers the pricing collectors on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		valuations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_valuations_total",
				Help: "Total number of valuations by instrument type and outcome",
			},
			[]string{"instrument", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pricing_valuation_seconds",
				Help:    "Distribution of valuation latency",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"instrument"},
		),
		risk: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_risk_computations_total",
				Help: "Total number of risk measure computations",
			},
			[]string{"measure"},
		),
	}
	reg.MustRegister(c.valuations, c.latency, c.risk)
	return c
}

// ObserveValuation records one engine valuation.
func (c *Collector) ObserveValuation(instrumentType string, elapsed time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	c.valuations.WithLabelValues(instrumentType, outcome).Inc()
	c.latency.WithLabelValues(instrumentType).Observe(elapsed.Seconds())
}

// RecordRisk counts one risk measure computation, e.g. "PV01".
func (c *Collector) RecordRisk(measure string) {
	c.risk.WithLabelValues(measure).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
