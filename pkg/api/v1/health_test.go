// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-gateway/pkg/logger"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	regmocks "github.com/stacklok/toolhive-gateway/pkg/registry/mocks"
)

func TestHealthRoutes(t *testing.T) {
	t.Parallel()
	logger.Initialize()

	ctrl := gomock.NewController(t)
	reg := regmocks.NewMockRegistry(ctrl)
	reg.EXPECT().ListExternalServers(gomock.Any(), gomock.Any()).Return([]registry.ExternalServer{
		{ID: "srv_1", DisplayName: "github", Status: registry.ServerDegraded, ConsecutiveFailures: 2},
	}, nil)

	router := chi.NewRouter()
	RegisterHealthRoutes(router, reg, "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
	assert.Contains(t, rec.Body.String(), `"github"`)
}
