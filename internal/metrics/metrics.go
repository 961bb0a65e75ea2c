// Package metrics exposes Prometheus counters for the intake API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ClientSaves counts client upserts, labeled by the resulting action
	// (inserted or updated).
	ClientSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackhub",
		Subsystem: "clients",
		Name:      "saves_total",
		Help:      "Client upserts by resulting action.",
	}, []string{"action"})

	// ClientSearches counts lookup requests, labeled found or miss.
	ClientSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackhub",
		Subsystem: "clients",
		Name:      "searches_total",
		Help:      "Client searches by outcome.",
	}, []string{"outcome"})

	// PetSaves counts pet rows written by batch saves, labeled by action.
	PetSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackhub",
		Subsystem: "pets",
		Name:      "saves_total",
		Help:      "Pet rows written by action.",
	}, []string{"action"})

	// OrdersRecorded counts supply orders written.
	OrdersRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackhub",
		Subsystem: "supplies",
		Name:      "orders_total",
		Help:      "Supply orders recorded.",
	})

	// LinesWritten counts supply order line items written.
	LinesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackhub",
		Subsystem: "supplies",
		Name:      "lines_total",
		Help:      "Supply order line items written.",
	})

	// RequestErrors counts requests that ended in an error response,
	// labeled by the user-facing error code.
	RequestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackhub",
		Subsystem: "http",
		Name:      "request_errors_total",
		Help:      "Error responses by user-facing code.",
	}, []string{"code"})
)

// SearchOutcome returns the label value for a search result.
func SearchOutcome(found bool) string {
	if found {
		return "found"
	}
	return "miss"
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
