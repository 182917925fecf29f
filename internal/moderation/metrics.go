package moderation

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "resources_moderation"

// Metrics 审核流水线的 Prometheus 指标。为 nil 时所有记录方法都是空操作。
type Metrics struct {
	Verdicts       *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
	ScrapeDuration prometheus.Histogram
	RunDuration    prometheus.Histogram
	RunFailures    prometheus.Counter
	Recovered      *prometheus.CounterVec

	// 队列
	QueueDepth    prometheus.Gauge
	ActiveWorkers prometheus.Gauge
	JobsDropped   *prometheus.CounterVec
	Requeued      prometheus.Counter
}

// NewMetrics 在 reg 上注册指标,测试里传独立的 registry
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Verdicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "verdicts_total",
			Help:      "Moderation verdicts by checker, source and outcome",
		}, []string{"checker", "source", "approved"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Verdict cache lookups by result",
		}, []string{"result"}),
		ScrapeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scrape_duration_seconds",
			Help:      "Time spent scraping a page",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent moderating one resource",
			Buckets:   prometheus.DefBuckets,
		}),
		RunFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "run_failures_total",
			Help:      "Moderation runs that hit an internal failure",
		}),
		Recovered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "recoveries_total",
			Help:      "Recovery attempts after a failed run by result",
		}, []string{"result"}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "queue_depth",
			Help:      "Jobs waiting in the moderation queue",
		}),
		ActiveWorkers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_workers",
			Help:      "Workers currently moderating a resource",
		}),
		JobsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "jobs_dropped_total",
			Help:      "Jobs not accepted by the queue by reason",
		}, []string{"reason"}),
		Requeued: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requeued_total",
			Help:      "Stale pending resources put back on the queue",
		}),
	}
}

func (m *Metrics) recordVerdict(checker string, v Verdict) {
	if m == nil {
		return
	}
	m.Verdicts.WithLabelValues(checker, string(v.Source()), strconv.FormatBool(v.Approved())).Inc()
}

func (m *Metrics) cacheHit() {
	if m != nil {
		m.CacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) cacheMiss() {
	if m != nil {
		m.CacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) observeScrape(d time.Duration) {
	if m != nil {
		m.ScrapeDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) observeRun(d time.Duration) {
	if m != nil {
		m.RunDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) runFailed() {
	if m != nil {
		m.RunFailures.Inc()
	}
}

func (m *Metrics) recovery(result string) {
	if m != nil {
		m.Recovered.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) queueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}

func (m *Metrics) workerBusy(delta float64) {
	if m != nil {
		m.ActiveWorkers.Add(delta)
	}
}

func (m *Metrics) dropped(reason string) {
	if m != nil {
		m.JobsDropped.WithLabelValues(reason).Inc()
	}
}

// RecordRequeue 定时巡检重新投递计数
func (m *Metrics) RecordRequeue(n int) {
	if m != nil {
		m.Requeued.Add(float64(n))
	}
}
