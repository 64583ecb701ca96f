// Package metrics provides Prometheus-based recording for handoff, ingest
// and relay activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "panoselect"

// Ingest outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeIgnored  = "ignored"
)

// Recorder implements the recorder interfaces of the handoff, ingest and
// relay packages.
type Recorder struct {
	handoffTotal    *prometheus.CounterVec
	handoffDuration prometheus.Histogram
	ingestTotal     *prometheus.CounterVec
	reconnectTotal  prometheus.Counter
	broadcastsTotal prometheus.Counter
	hubClients      prometheus.Gauge
	cachedImages    *prometheus.CounterVec
}

// NewRecorder registers all collectors with reg. A nil reg falls back to
// a fresh private registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Recorder{
		handoffTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handoff_requests_total",
				Help:      "Selections sent to the editing service by outcome",
			},
			[]string{"status"},
		),
		handoffDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "handoff_request_duration_seconds",
				Help:      "Duration of handoff requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		ingestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_events_total",
				Help:      "Inbound result events by outcome",
			},
			[]string{"outcome"},
		),
		reconnectTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "push_reconnect_attempts_total",
				Help:      "Reconnect attempts on the push channel",
			},
		),
		broadcastsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relay_broadcasts_total",
				Help:      "Events broadcast to push subscribers",
			},
		),
		hubClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "relay_hub_clients",
				Help:      "Connected push subscribers",
			},
		),
		cachedImages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relay_cached_images_total",
				Help:      "Images downloaded into the relay cache by outcome",
			},
			[]string{"status"},
		),
	}
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// ObserveHandoff records one completed handoff request.
func (r *Recorder) ObserveHandoff(ok bool, d time.Duration) {
	r.handoffTotal.WithLabelValues(status(ok)).Inc()
	r.handoffDuration.Observe(d.Seconds())
}

// ObserveIngest records the outcome of one inbound event.
func (r *Recorder) ObserveIngest(outcome string) {
	r.ingestTotal.WithLabelValues(outcome).Inc()
}

// IncReconnect counts one reconnect attempt.
func (r *Recorder) IncReconnect() {
	r.reconnectTotal.Inc()
}

// IncBroadcast counts one relay broadcast.
func (r *Recorder) IncBroadcast() {
	r.broadcastsTotal.Inc()
}

// SetHubClients sets the number of connected subscribers.
func (r *Recorder) SetHubClients(n int) {
	r.hubClients.Set(float64(n))
}

// ObserveCache records one download into the relay cache.
func (r *Recorder) ObserveCache(ok bool) {
	r.cachedImages.WithLabelValues(status(ok)).Inc()
}
