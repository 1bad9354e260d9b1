// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ReservationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Reservations created in pending state",
		},
		[]string{"type"},
	)
	ReservationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_rejected_total",
			Help: "Reservation create requests rejected, by reason",
		},
		[]string{"type", "reason"},
	)
	ReservationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_transitions_total",
			Help: "Reservation status transitions",
		},
		[]string{"from", "to"},
	)
	HoldsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservation_holds_expired_total",
			Help: "Pending reservations cancelled because their hold lapsed",
		},
	)
	RefundsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservation_refunds_total",
			Help: "Refunds requested for cancelled confirmed reservations",
		},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}
