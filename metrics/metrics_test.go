package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.ObserveScrape("search", OutcomeOK, time.Second)
	m.IncLaunch()
	m.PageOpened()
	m.PageClosed()
	m.IncCacheHit("search")
}

func TestMetricsRecord(t *testing.T) {
	m := New()

	m.ObserveScrape("search", OutcomeOK, 2*time.Second)
	m.ObserveScrape("search", OutcomeNotFound, time.Second)
	m.ObserveScrape("search", OutcomeOK, time.Second)
	m.IncLaunch()
	m.PageOpened()
	m.PageOpened()
	m.PageClosed()

	if got := testutil.ToFloat64(m.ScrapesTotal.WithLabelValues("search", OutcomeOK)); got != 2 {
		t.Errorf("ok scrapes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.BrowserLaunches); got != 1 {
		t.Errorf("launches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.OpenPages); got != 1 {
		t.Errorf("open pages = %v, want 1", got)
	}
}
