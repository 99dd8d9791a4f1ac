package warmup

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "shortlink"
	metricsSubsystem = "warmup"
)

type Metrics struct {
	JobsTotal          *prometheus.CounterVec
	JobDurationSeconds *prometheus.HistogramVec
	JobsRunning        prometheus.Gauge
	LinksTotal         *prometheus.CounterVec
	QueueDepth         prometheus.Gauge
	QueueRejected      prometheus.Counter
	CacheWriteSeconds  prometheus.Histogram
}

// NewMetrics registers the warmup collectors on reg, or on the default
// registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		JobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "jobs_total",
				Help:      "Warmup jobs finished, by strategy and terminal status",
			},
			[]string{"strategy", "status"},
		),
		JobDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "job_duration_seconds",
				Help:      "Wall time of warmup jobs",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 15),
			},
			[]string{"strategy"},
		),
		JobsRunning: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "jobs_running",
			Help:      "Warmup jobs currently executing on a worker",
		}),
		LinksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "links_total",
				Help:      "Links processed by warmup jobs, by outcome",
			},
			[]string{"result"},
		),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "queue_depth",
			Help:      "Accepted warmup jobs waiting for a worker",
		}),
		QueueRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "queue_rejected_total",
			Help:      "Warmup requests rejected because the queue was full",
		}),
		CacheWriteSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "cache_write_seconds",
			Help:      "Latency of single cache writes",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) jobFinished(job Job) {
	strategy := string(job.Strategy)
	m.JobsTotal.WithLabelValues(strategy, strings.ToLower(string(job.Status))).Inc()
	m.JobDurationSeconds.WithLabelValues(strategy).Observe(float64(job.DurationMs) / 1000)
}

func (m *Metrics) batchDone(success, failed int) {
	m.LinksTotal.WithLabelValues("success").Add(float64(success))
	m.LinksTotal.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) skipped(n int) {
	m.LinksTotal.WithLabelValues("skipped").Add(float64(n))
}
