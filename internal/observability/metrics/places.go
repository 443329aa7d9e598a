package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlaceOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_operations_total",
			Help: "Total number of place mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GeocodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_requests_total",
			Help: "Total number of geocoding lookups by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	GeocodeDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocode_request_duration_seconds",
			Help:    "Duration of geocoding lookups in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	ImagesStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "images_stored_total",
			Help: "Total number of uploaded images stored by backend",
		},
		[]string{"backend"},
	)

	ImagesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "images_rejected_total",
			Help: "Total number of rejected uploads by reason",
		},
		[]string{"reason"},
	)

	ImagesDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "images_deleted_total",
			Help: "Total number of image deletions by outcome",
		},
		[]string{"outcome"},
	)

	FeedConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "place_feed_connections_active",
			Help: "Number of active place feed websocket connections",
		},
	)

	FeedEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_feed_events_total",
			Help: "Total number of place feed events by type",
		},
		[]string{"type"},
	)

	FeedEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_feed_events_dropped_total",
			Help: "Total number of place feed events dropped by reason",
		},
		[]string{"reason"},
	)
)
