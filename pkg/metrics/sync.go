package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records projection outcomes and queue pressure.
type SyncMetrics struct {
	duration   *prometheus.HistogramVec
	success    *prometheus.CounterVec
	failure    *prometheus.CounterVec
	queueDepth prometheus.Gauge
	dropped    prometheus.Counter
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_projection_duration_seconds",
		Help:    "Duration of booking engine projections in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_projection_success",
		Help: "Successful booking engine projections.",
	}, []string{"resource"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_projection_failure",
		Help: "Failed booking engine projections.",
	}, []string{"resource"})
	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sync_queue_depth",
		Help: "Jobs waiting in the background sync queue.",
	})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sync_queue_dropped",
		Help: "Jobs dropped because the sync queue was full.",
	})
	reg.MustRegister(duration, success, failure, queueDepth, dropped)
	return &SyncMetrics{
		duration:   duration,
		success:    success,
		failure:    failure,
		queueDepth: queueDepth,
		dropped:    dropped,
	}
}

// ObserveDuration records the duration for the named resource.
func (s *SyncMetrics) ObserveDuration(resource string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(resource)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named resource.
func (s *SyncMetrics) IncSuccess(resource string) {
	if s == nil || s.success == nil {
		return
	}
	s.success.WithLabelValues(normalizeLabel(resource)).Inc()
}

// IncFailure increments the failure counter for the named resource.
func (s *SyncMetrics) IncFailure(resource string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(resource)).Inc()
}

// SetQueueDepth publishes the current queue backlog.
func (s *SyncMetrics) SetQueueDepth(depth int) {
	if s == nil || s.queueDepth == nil {
		return
	}
	s.queueDepth.Set(float64(depth))
}

// IncDropped counts a job rejected by a full queue.
func (s *SyncMetrics) IncDropped() {
	if s == nil || s.dropped == nil {
		return
	}
	s.dropped.Inc()
}

func normalizeLabel(resource string) string {
	if resource == "" {
		return "unknown"
	}
	return resource
}
