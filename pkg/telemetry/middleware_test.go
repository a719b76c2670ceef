// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNewHTTPMiddleware(t *testing.T) {
	t.Parallel()

	config := Config{ServiceName: "test-service", ServiceVersion: "1.0.0"}
	middleware := NewHTTPMiddleware(config, tracenoop.NewTracerProvider(), noop.NewMeterProvider(), "gateway", "rest_api")
	assert.NotNil(t, middleware)
}

func TestHTTPMiddleware_Handler_BasicRequest(t *testing.T) {
	t.Parallel()

	config := Config{ServiceName: "test-service", ServiceVersion: "1.0.0"}
	middleware := NewHTTPMiddleware(config, tracenoop.NewTracerProvider(), noop.NewMeterProvider(), "gateway", "rest_api")

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("test response"))
	})
	wrapped := middleware(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test response", rec.Body.String())
}

func TestHTTPMiddleware_Handler_RecordsServerErrorStatus(t *testing.T) {
	t.Parallel()

	config := Config{ServiceName: "test-service", ServiceVersion: "1.0.0"}
	middleware := NewHTTPMiddleware(config, tracenoop.NewTracerProvider(), noop.NewMeterProvider(), "gateway", "rest_api")

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	wrapped := middleware(testHandler)

	req := httptest.NewRequest(http.MethodPost, "/tools/call", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHTTPMiddleware_SpanName(t *testing.T) {
	t.Parallel()

	m := &HTTPMiddleware{component: "gateway"}
	req := httptest.NewRequest(http.MethodGet, "/capabilities", nil)
	assert.Equal(t, "gateway /capabilities", m.spanName(req))
}
