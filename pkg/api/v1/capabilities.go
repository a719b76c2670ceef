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
	"github.com/stacklok/toolhive-gateway/pkg/tenancy"
)

// CapabilitiesRoutes serves the aggregate capability-count summary.
type CapabilitiesRoutes struct {
	reg registry.Registry
}

// RegisterCapabilitiesRoutes adds GET /capabilities to r.
func RegisterCapabilitiesRoutes(r chi.Router, reg registry.Registry) {
	routes := CapabilitiesRoutes{reg: reg}
	r.Get("/capabilities", apierrors.ErrorHandler(routes.listCapabilities))
}

// listCapabilities reports how many tools, prompts, and resources are
// currently active and visible to the caller, split by origin.
//
//	@Summary		Capability counts
//	@Description	Aggregate counts of active tools, prompts, and resources visible to the caller
//	@Tags			capabilities
//	@Produce		json
//	@Success		200	{object}	capabilitiesResponse
//	@Failure		500	{string}	string	"Internal Server Error"
//	@Router			/api/v1beta/capabilities [get]
func (c *CapabilitiesRoutes) listCapabilities(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	filter := registry.ListFilter{OrgID: tenancy.ResolveFromRequest(r).OrgID, IncludeGlobal: true}

	tools, err := c.reg.ListTools(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing tools: %w", err)
	}
	prompts, err := c.reg.ListPrompts(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing prompts: %w", err)
	}
	resources, err := c.reg.ListResources(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing resources: %w", err)
	}

	resp := capabilitiesResponse{
		Tools:     countByOrigin(len(tools), toolOrigins(tools)),
		Prompts:   countByOrigin(len(prompts), promptOrigins(prompts)),
		Resources: countByOrigin(len(resources), resourceOrigins(resources)),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return fmt.Errorf("encoding capabilities response: %w", err)
	}
	return nil
}

func toolOrigins(tools []registry.Tool) []registry.Origin {
	out := make([]registry.Origin, len(tools))
	for i, t := range tools {
		out[i] = t.Origin
	}
	return out
}

func promptOrigins(prompts []registry.Prompt) []registry.Origin {
	out := make([]registry.Origin, len(prompts))
	for i, p := range prompts {
		out[i] = p.Origin
	}
	return out
}

func resourceOrigins(resources []registry.Resource) []registry.Origin {
	out := make([]registry.Origin, len(resources))
	for i, res := range resources {
		out[i] = res.Origin
	}
	return out
}

func countByOrigin(total int, origins []registry.Origin) originCount {
	c := originCount{Total: total}
	for _, o := range origins {
		switch o {
		case registry.OriginInternal:
			c.Internal++
		case registry.OriginExternal:
			c.External++
		}
	}
	return c
}
