// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trashpoint"

// Outcome label values of GeocodeRequests.
const (
	OutcomeSuccess      = "success"
	OutcomeEmpty        = "empty"
	OutcomeNetworkError = "network_error"
	OutcomeDecodeError  = "decode_error"
	OutcomeError        = "error"
)

// Metrics holds the Prometheus collectors of the geocoding service.
type Metrics struct {
	Registry *prometheus.Registry

	GeocodeRequests *prometheus.CounterVec   // labels: provider, outcome={success,empty,network_error,decode_error,error}
	GeocodeDuration *prometheus.HistogramVec // labels: provider
	GeocodeInFlight prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec // labels: route, status
}

// NewMetrics creates the collectors and registers them with a fresh registry. The Go runtime
// and process collectors are registered as well, so the registry can back a /metrics endpoint
// on its own.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		GeocodeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_request_duration_seconds",
			Help:      "Reverse geocoding request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		GeocodeInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_requests_in_flight",
			Help:      "Number of reverse geocoding requests currently waiting for the provider.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status code.",
		}, []string{"route", "status"}),
	}
}
