package service

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation of timetable generation runs.
type MetricsService struct {
	registry         *prometheus.Registry
	runsTotal        prometheus.Counter
	candidatesTotal  prometheus.Counter
	sessionsTotal    prometheus.Counter
	rejectedTotal    *prometheus.CounterVec
	scoreHistogram   prometheus.Histogram
	utilizationGauge prometheus.Gauge
	runDuration      prometheus.Histogram

	candidateCount uint64
	sessionCount   uint64
}

// NewMetricsService registers the generator collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_generation_runs_total",
		Help: "Total number of generation runs",
	})

	candidatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_candidates_total",
		Help: "Total number of timetable candidates generated",
	})

	sessionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_sessions_scheduled_total",
		Help: "Total number of sessions placed across all candidates",
	})

	rejectedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_rejected_attempts_total",
		Help: "Rejected placement attempts by failing check",
	}, []string{"reason"})

	scoreHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_optimization_score",
		Help:    "Optimization score of generated candidates",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	utilizationGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_classroom_utilization_percent",
		Help: "Classroom utilization of the most recently generated candidate",
	})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Wall time of a full generation run",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(runsTotal, candidatesTotal, sessionsTotal, rejectedTotal, scoreHistogram, utilizationGauge, runDuration, goroutines)

	return &MetricsService{
		registry:         registry,
		runsTotal:        runsTotal,
		candidatesTotal:  candidatesTotal,
		sessionsTotal:    sessionsTotal,
		rejectedTotal:    rejectedTotal,
		scoreHistogram:   scoreHistogram,
		utilizationGauge: utilizationGauge,
		runDuration:      runDuration,
	}
}

// Registry exposes the gatherer for dumping or tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveCandidate records the outcome of one candidate.
func (m *MetricsService) ObserveCandidate(timetable *models.Timetable) {
	if m == nil || timetable == nil {
		return
	}
	m.candidatesTotal.Inc()
	m.sessionsTotal.Add(float64(timetable.Metrics.TotalClassesScheduled))
	m.scoreHistogram.Observe(timetable.Metrics.OptimizationScore)
	m.utilizationGauge.Set(timetable.Metrics.ClassroomUtilization)
	for _, attempt := range timetable.Conflicts {
		for _, reason := range attempt.Reasons {
			m.rejectedTotal.WithLabelValues(reason).Inc()
		}
	}
	atomic.AddUint64(&m.candidateCount, 1)
	atomic.AddUint64(&m.sessionCount, uint64(timetable.Metrics.TotalClassesScheduled))
}

// ObserveRun records a finished generation run.
func (m *MetricsService) ObserveRun(duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
	m.runDuration.Observe(duration.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format, e.g. for a node_exporter textfile collector.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Totals returns the candidate and session counters observed so far.
func (m *MetricsService) Totals() (candidates, sessions uint64) {
	if m == nil {
		return 0, 0
	}
	return atomic.LoadUint64(&m.candidateCount), atomic.LoadUint64(&m.sessionCount)
}
