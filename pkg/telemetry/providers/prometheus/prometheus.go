// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package prometheus builds the OTel metric reader and /metrics handler
// backing the gateway's Prometheus scrape endpoint.
package prometheus

import (
	"fmt"
	"net/http"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls whether the Prometheus scrape path is enabled and whether
// Go runtime/process metrics are included alongside the gateway's own.
type Config struct {
	EnableMetricsPath     bool
	IncludeRuntimeMetrics bool
}

// NewReader builds an OTel metric.Reader that exports into its own
// Prometheus registry, plus the http.Handler serving that registry. Returns
// an error if the metrics path is not enabled, since a reader with nowhere
// to be scraped from is a caller mistake.
func NewReader(cfg Config) (sdkmetric.Reader, http.Handler, error) {
	if !cfg.EnableMetricsPath {
		return nil, nil, fmt.Errorf("prometheus: NewReader requires EnableMetricsPath")
	}

	registry := prometheus.NewRegistry()
	if cfg.IncludeRuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	reader, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("prometheus: new reader: %w", err)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return reader, handler, nil
}
