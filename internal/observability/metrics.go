// Package observability holds the Prometheus metrics exported on /metrics.
package observability

import (
	"strconv"
	"time"

	"github.com/mr1hm/go-hazard-watch/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hazard_watch"

type Metrics struct {
	// Upstream fetches. labels: source={usgs,open-meteo,nominatim,backend}, outcome={success,error}
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec // labels: source

	GeocodeCache *prometheus.CounterVec // labels: result={hit,miss}

	// Alerting.
	AlertsPublished   *prometheus.CounterVec // labels: hazard, severity
	BatchesPublished  *prometheus.CounterVec // labels: hazard
	BatchesDropped    prometheus.Counter
	StreamSubscribers prometheus.Gauge
	FetchesSuperseded *prometheus.CounterVec // labels: hazard

	// Poller.
	PollDuration     prometheus.Histogram
	WatchedLocations prometheus.Gauge

	HTTPRequests *prometheus.CounterVec // labels: method, route, status
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := build()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can construct as many as they like.
func NewMetricsForTesting() *Metrics {
	return build()
}

func build() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream data source requests by source and outcome.",
		}, []string{"source", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request duration including retries.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		AlertsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Alerts delivered to the broadcaster by hazard and severity.",
		}, []string{"hazard", "severity"}),
		BatchesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_batches_published_total",
			Help:      "Alert batches published, including empty ones.",
		}, []string{"hazard"}),
		BatchesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_batches_dropped_total",
			Help:      "Batches dropped because a subscriber buffer was full.",
		}),
		StreamSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Currently registered alert listeners.",
		}),
		FetchesSuperseded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_superseded_total",
			Help:      "Fetch results discarded because a newer fetch for the same subject started.",
		}, []string{"hazard"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Time to list watched locations and queue their refresh.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		WatchedLocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watched_locations",
			Help:      "Watched locations seen by the last poll.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
		m.AlertsPublished,
		m.BatchesPublished,
		m.BatchesDropped,
		m.StreamSubscribers,
		m.FetchesSuperseded,
		m.PollDuration,
		m.WatchedLocations,
		m.HTTPRequests,
	}
}

// The helpers below are safe on a nil *Metrics so callers such as the CLI
// can run without a registry.

// ObserveUpstream records one upstream call started at start.
func (m *Metrics) ObserveUpstream(source string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamRequests.WithLabelValues(source, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveBatch(batch models.AlertBatch) {
	if m == nil {
		return
	}
	m.BatchesPublished.WithLabelValues(string(batch.HazardType)).Inc()
	for _, a := range batch.Alerts {
		m.AlertsPublished.WithLabelValues(string(a.HazardType), string(a.Severity)).Inc()
	}
}

func (m *Metrics) ObserveSuperseded(hazard models.HazardType) {
	if m == nil {
		return
	}
	m.FetchesSuperseded.WithLabelValues(string(hazard)).Inc()
}

func (m *Metrics) ObservePoll(start time.Time, watched int) {
	if m == nil {
		return
	}
	m.PollDuration.Observe(time.Since(start).Seconds())
	m.WatchedLocations.Set(float64(watched))
}

func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
