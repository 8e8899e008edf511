package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noon-labs/namecycler/rotator"
)

const namespace = "namecycler"

// Metrics exports rename loop activity on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	attempts    *prometheus.CounterVec
	renames     prometheus.Counter
	interval    prometheus.Gauge
	loopRunning prometheus.Gauge
	duration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rename_attempts_total",
			Help:      "Rename calls per call path and result.",
		}, []string{"path", "result"}),
		renames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renames_total",
			Help:      "Candidate names that were applied by either path.",
		}),
		interval: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interval_seconds",
			Help:      "Current wait between rename attempts.",
		}),
		loopRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loop_running",
			Help:      "1 while a rename loop is running.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_duration_seconds",
			Help:      "Wall time of one candidate across both call paths.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.attempts,
		m.renames,
		m.interval,
		m.loopRunning,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) AttemptFinished(a rotator.Attempt) {
	for _, o := range a.Outcomes() {
		m.attempts.WithLabelValues(o.Path, o.Cause.String()).Inc()
	}
	if a.OK() {
		m.renames.Inc()
	}
	m.duration.Observe(a.Duration.Seconds())
}

func (m *Metrics) IntervalChanged(d time.Duration) {
	m.interval.Set(d.Seconds())
}

func (m *Metrics) LoopStateChanged(running bool) {
	if running {
		m.loopRunning.Set(1)
		return
	}
	m.loopRunning.Set(0)
}
