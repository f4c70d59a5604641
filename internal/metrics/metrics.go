// Package metrics holds the Prometheus collectors for venue search,
// geocoding and the sports data sync.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricSearchesTotal        = "rbar_venue_searches_total"
	MetricSearchDuration       = "rbar_venue_search_duration_seconds"
	MetricSearchResults        = "rbar_venue_search_results"
	MetricGeocodeRequestsTotal = "rbar_geocode_requests_total"
	MetricSyncRunsTotal        = "rbar_sync_runs_total"
	MetricSyncItemsTotal       = "rbar_sync_items_total"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
)

// Metrics is safe for concurrent use.
type Metrics struct {
	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchResults  *prometheus.HistogramVec
	geocodes       *prometheus.CounterVec
	syncRuns       *prometheus.CounterVec
	syncItems      *prometheus.CounterVec
}

// New creates the collectors. Call Register to expose them.
func New() *Metrics {
	return &Metrics{
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSearchesTotal,
				Help: "Venue proximity searches by variant and outcome",
			},
			[]string{"variant", "outcome"},
		),
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricSearchDuration,
				Help:    "Venue proximity search latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"variant"},
		),
		searchResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricSearchResults,
				Help:    "Number of venues returned per search",
				Buckets: []float64{0, 1, 2, 5, 10, 20},
			},
			[]string{"variant"},
		),
		geocodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricGeocodeRequestsTotal,
				Help: "Outbound geocoding requests by outcome",
			},
			[]string{"outcome"},
		),
		syncRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSyncRunsTotal,
				Help: "Sports data sync runs by job and status",
			},
			[]string{"job", "status"},
		),
		syncItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSyncItemsTotal,
				Help: "Items touched by the sports data sync",
			},
			[]string{"job", "result"},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.searches,
		m.searchDuration,
		m.searchResults,
		m.geocodes,
		m.syncRuns,
		m.syncItems,
	}
}

// ObserveSearch records one search call. results is ignored unless the
// outcome is OutcomeOK.
func (m *Metrics) ObserveSearch(variant, outcome string, seconds float64, results int) {
	m.searches.WithLabelValues(variant, outcome).Inc()
	m.searchDuration.WithLabelValues(variant).Observe(seconds)
	if outcome == OutcomeOK {
		m.searchResults.WithLabelValues(variant).Observe(float64(results))
	}
}

func (m *Metrics) ObserveGeocode(outcome string) {
	m.geocodes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSyncRun(job, status string) {
	m.syncRuns.WithLabelValues(job, status).Inc()
}

func (m *Metrics) AddSyncItems(job, result string, n int) {
	if n <= 0 {
		return
	}
	m.syncItems.WithLabelValues(job, result).Add(float64(n))
}
