package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for ScrapesTotal.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics bundles Prometheus collectors for the service.
type Metrics struct {
	Registry        *prometheus.Registry
	ScrapesTotal    *prometheus.CounterVec
	ScrapeDuration  *prometheus.HistogramVec
	BrowserLaunches prometheus.Counter
	OpenPages       prometheus.Gauge
	CacheHits       *prometheus.CounterVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamegrab_scrapes_total",
			Help: "Scrape operations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamegrab_scrape_duration_seconds",
			Help:    "Time from page open to extraction result.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"operation"},
	)
	launches := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gamegrab_browser_launches_total",
			Help: "Browser processes launched.",
		},
	)
	openPages := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamegrab_open_pages",
			Help: "Page contexts currently open.",
		},
	)
	cacheHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamegrab_cache_hits_total",
			Help: "Requests answered from the result cache.",
		},
		[]string{"operation"},
	)

	registry.MustRegister(scrapes, duration, launches, openPages, cacheHits)

	return &Metrics{
		Registry:        registry,
		ScrapesTotal:    scrapes,
		ScrapeDuration:  duration,
		BrowserLaunches: launches,
		OpenPages:       openPages,
		CacheHits:       cacheHits,
	}
}

// ObserveScrape records the outcome and latency of one scrape.
func (m *Metrics) ObserveScrape(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(operation, outcome).Inc()
	m.ScrapeDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncLaunch counts a browser launch.
func (m *Metrics) IncLaunch() {
	if m == nil {
		return
	}
	m.BrowserLaunches.Inc()
}

// PageOpened increments the open pages gauge.
func (m *Metrics) PageOpened() {
	if m == nil {
		return
	}
	m.OpenPages.Inc()
}

// PageClosed decrements the open pages gauge.
func (m *Metrics) PageClosed() {
	if m == nil {
		return
	}
	m.OpenPages.Dec()
}

// IncCacheHit counts a cache hit for operation.
func (m *Metrics) IncCacheHit(operation string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(operation).Inc()
}
