// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// HTTPMiddleware records a span and a request-duration histogram for every
// request it wraps. component/operation label the instrument (e.g.
// "gateway", "rest_api" or "gateway", "mcp_session") so the same middleware
// type can front both the REST surface and the /mcp streamable-HTTP handler.
type HTTPMiddleware struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram

	component string
	operation string
}

// NewHTTPMiddleware builds an HTTPMiddleware bound to the given providers.
// Passing a noop provider (as tests do) yields a middleware that still
// wraps every handler correctly, just without recording anything.
func NewHTTPMiddleware(
	cfg Config,
	tracerProvider trace.TracerProvider,
	meterProvider metric.MeterProvider,
	component, operation string,
) func(http.Handler) http.Handler {
	tracer := tracerProvider.Tracer(cfg.ServiceName)
	meter := meterProvider.Meter(cfg.ServiceName)

	// meter.Float64Histogram only errors on a malformed instrument name or
	// unit, both constants here, so this can't fail at runtime.
	duration, _ := meter.Float64Histogram(
		"gateway.http.server.duration",
		metric.WithDescription("duration of gateway HTTP requests"),
		metric.WithUnit("ms"),
	)

	m := &HTTPMiddleware{
		tracer:    tracer,
		duration:  duration,
		component: component,
		operation: operation,
	}
	return m.wrap
}

func (m *HTTPMiddleware) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, span := m.tracer.Start(r.Context(), m.spanName(r), trace.WithAttributes(
			attribute.String("gateway.component", m.component),
			attribute.String("gateway.operation", m.operation),
			attribute.String("http.method", r.Method),
			attribute.String("http.route", r.URL.Path),
		))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, fmt.Sprintf("http %d", rec.status))
		}

		m.duration.Record(ctx, float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(
				attribute.String("gateway.component", m.component),
				attribute.String("gateway.operation", m.operation),
				attribute.Int("http.status_code", rec.status),
			))
	})
}

func (m *HTTPMiddleware) spanName(r *http.Request) string {
	return fmt.Sprintf("%s %s", m.component, r.URL.Path)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
