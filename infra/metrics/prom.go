package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/evlab/chargeprofile/core/metrics"
)

// PromSink records plan events in Prometheus metrics.
type PromSink struct {
	plans    *prometheus.CounterVec
	duration prometheus.Histogram
	soc      prometheus.Gauge
}

// NewPromSink registers plan metrics on the default Prometheus
// registerer. The Prometheus server is started separately on
// cfg.PrometheusAddr.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "charge_plans_total",
		Help: "Total number of handled scheduling requests",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "charge_plan_duration_seconds",
		Help:    "Time spent computing a charging plan",
		Buckets: prometheus.DefBuckets,
	})
	soc := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "charge_plan_soc_percent",
		Help: "State of charge at departure of the last computed plan",
	})

	if err := reg.Register(plans); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			plans = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(soc); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			soc = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{plans: plans, duration: duration, soc: soc}, nil
}

// RecordPlan increments the outcome counter and observes the planning
// duration. The SoC gauge only moves for successful plans.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(ev.Outcome).Inc()
	s.duration.Observe(ev.Duration.Seconds())
	if ev.Outcome == "ok" {
		s.soc.Set(float64(ev.Percentage))
	}
	return nil
}
