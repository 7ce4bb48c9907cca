// Package observability exposes the service's Prometheus registry.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammadpnp/field-productivity/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the service.
type Metrics struct {
	registry     *prometheus.Registry
	Productivity *metrics.ProductivityMetrics
	HTTP         *metrics.HTTPMetrics
}

func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}

	productivityMetrics, err := metrics.NewProductivityMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create productivity metrics: %w", err)
	}
	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	return &Metrics{
		registry:     registry,
		Productivity: productivityMetrics,
		HTTP:         httpMetrics,
	}, nil
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
