// Package metrics holds the Prometheus collectors shared by the scraper and
// the API server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Source site requests
	FetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keibadb_fetch_requests_total",
		Help: "Pages requested from the source site by result",
	}, []string{"result"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "keibadb_fetch_duration_seconds",
		Help:    "Time to fetch and decode one page, retries included",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	// Scrape runs
	ScrapeItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keibadb_scrape_items_total",
		Help: "Scraped items by kind and outcome",
	}, []string{"kind", "outcome"})

	ValidationViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keibadb_validation_violations_total",
		Help: "Validation violations by record type",
	}, []string{"record"})

	MissingSections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keibadb_missing_sections_total",
		Help: "Pages where a required section was not found",
	}, []string{"section"})
)

// Item outcomes.
const (
	Success = "success"
	Skipped = "skipped"
	Failed  = "failed"
)
