// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_TracingAndMetricsDisabled(t *testing.T) {
	t.Parallel()

	providers, err := Setup(context.Background(), Config{ServiceName: "gateway-test", ServiceVersion: "0.0.0"})
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.Nil(t, providers.MetricsHandler)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestSetup_PrometheusMetricsPathEnabled(t *testing.T) {
	t.Parallel()

	providers, err := Setup(context.Background(), Config{
		ServiceName:                 "gateway-test",
		ServiceVersion:              "0.0.0",
		EnablePrometheusMetricsPath: true,
	})
	require.NoError(t, err)
	require.NotNil(t, providers.MetricsHandler)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	providers.MetricsHandler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestSetup_TracingEnabledProducesRecordingTracerProvider(t *testing.T) {
	t.Parallel()

	providers, err := Setup(context.Background(), Config{
		ServiceName:    "gateway-test",
		ServiceVersion: "0.0.0",
		TracingEnabled: true,
	})
	require.NoError(t, err)

	_, span := providers.TracerProvider.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, providers.Shutdown(context.Background()))
}
