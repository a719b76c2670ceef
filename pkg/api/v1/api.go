// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package v1 implements the gateway's HTTP request surface: search,
// tool-call forwarding, skill-category administration, external-server
// lifecycle management, and a capabilities/health summary. Every handler is
// mounted under a chi router and wrapped by apierrors.ErrorHandler so
// handlers return errors instead of writing them directly.
//
// The @Summary/@Router comments on each handler follow
// "github.com/swaggo/swag/v2/cmd/swag@v2.0.0-rc4" conventions; openapi.go
// builds the served OpenAPI 3.1 document by hand from the same routes
// rather than by running swag init, since the hand-built document carries
// response schemas swag's comment grammar would need a second pass to fill
// in anyway.
package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/toolhive-gateway/pkg/aggregator"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	"github.com/stacklok/toolhive-gateway/pkg/search"
	"github.com/stacklok/toolhive-gateway/pkg/skills"
)

// Deps bundles the services the router dispatches into. Every field is
// required.
type Deps struct {
	Search       search.Service
	Registry     registry.Registry
	Aggregator   aggregator.Aggregator
	SkillService skills.SkillService
	Version      string
}

// Router builds the gateway's full HTTP request surface, mounted at the
// root the caller chooses (typically "/api/v1beta").
func Router(deps Deps) http.Handler {
	r := chi.NewRouter()

	RegisterSearchRoutes(r, deps.Search, deps.Aggregator)
	RegisterCapabilitiesRoutes(r, deps.Registry)
	RegisterHealthRoutes(r, deps.Registry, deps.Version)

	r.Mount("/skills", SkillsRouter(deps.SkillService))
	r.Mount("/aggregator/servers", AggregatorRouter(deps.Registry, deps.Aggregator))

	r.Get("/openapi.json", ServeOpenAPI)
	r.Get("/docs", ServeScalar)

	return r
}
