// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/stacklok/toolhive-gateway/pkg/api/errors"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
)

// HealthRoutes serves the liveness/readiness endpoint, elaborated with
// every external server's current connection status.
type HealthRoutes struct {
	reg     registry.Registry
	version string
}

// RegisterHealthRoutes adds GET /health to r.
func RegisterHealthRoutes(r chi.Router, reg registry.Registry, version string) {
	routes := HealthRoutes{reg: reg, version: version}
	r.Get("/health", apierrors.ErrorHandler(routes.health))
}

// health reports process liveness plus each registered external server's
// connection status, so an operator can see a degraded aggregator without
// a separate call per server. This is an operator-facing view, not a
// tenant-scoped one: it lists every server visible at the global scope
// rather than filtering by the caller's org.
//
//	@Summary		Liveness and server-status summary
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	healthResponse
//	@Router			/api/v1beta/health [get]
func (h *HealthRoutes) health(w http.ResponseWriter, r *http.Request) error {
	servers, err := h.reg.ListExternalServers(r.Context(), registry.ListFilter{IncludeGlobal: true, IncludeInactive: true})
	if err != nil {
		return fmt.Errorf("listing external servers for health: %w", err)
	}

	statuses := make(map[string]serverHealth, len(servers))
	for _, s := range servers {
		statuses[s.ID] = serverHealth{
			DisplayName:         s.DisplayName,
			Status:              string(s.Status),
			ConsecutiveFailures: s.ConsecutiveFailures,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Version: h.version,
		Servers: statuses,
	}); err != nil {
		return fmt.Errorf("encoding health response: %w", err)
	}
	return nil
}
