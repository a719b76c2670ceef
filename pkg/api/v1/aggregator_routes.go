// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/stacklok/toolhive-gateway/pkg/api/errors"
	"github.com/stacklok/toolhive-gateway/pkg/aggregator"
	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	"github.com/stacklok/toolhive-gateway/pkg/tenancy"
)

// AggregatorRoutes manages the external-server lifecycle: registration,
// connect/disconnect, and removal.
type AggregatorRoutes struct {
	reg registry.Registry
	agg aggregator.Aggregator
}

// AggregatorRouter creates a new router for external-server endpoints,
// mounted at /aggregator/servers.
func AggregatorRouter(reg registry.Registry, agg aggregator.Aggregator) http.Handler {
	routes := AggregatorRoutes{reg: reg, agg: agg}

	r := chi.NewRouter()
	r.Get("/", apierrors.ErrorHandler(routes.listServers))
	r.Post("/", apierrors.ErrorHandler(routes.registerServer))
	r.Post("/{id}/connect", apierrors.ErrorHandler(routes.connectServer))
	r.Post("/{id}/disconnect", apierrors.ErrorHandler(routes.disconnectServer))
	r.Delete("/{id}", apierrors.ErrorHandler(routes.removeServer))

	return r
}

// listServers returns external servers visible to the caller.
//
//	@Summary		List external servers
//	@Description	List registered external MCP servers and their connection status
//	@Tags			aggregator
//	@Produce		json
//	@Success		200	{object}	serverListResponse
//	@Failure		500	{string}	string	"Internal Server Error"
//	@Router			/api/v1beta/aggregator/servers [get]
func (a *AggregatorRoutes) listServers(w http.ResponseWriter, r *http.Request) error {
	filter := registry.ListFilter{OrgID: tenancy.ResolveFromRequest(r).OrgID, IncludeGlobal: true}

	servers, err := a.reg.ListExternalServers(r.Context(), filter)
	if err != nil {
		return fmt.Errorf("listing external servers: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(serverListResponse{Servers: toServerResponses(servers)}); err != nil {
		return fmt.Errorf("encoding server list: %w", err)
	}
	return nil
}

// registerServer persists a new external server and attempts an initial
// connection.
//
//	@Summary		Register an external server
//	@Description	Register a new external MCP server and attempt to connect it
//	@Tags			aggregator
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerServerRequest	true	"Server record"
//	@Success		201		{object}	serverResponse
//	@Failure		422		{string}	string	"Validation Error"
//	@Router			/api/v1beta/aggregator/servers [post]
func (a *AggregatorRoutes) registerServer(w http.ResponseWriter, r *http.Request) error {
	var req registerServerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return gwerrors.NewValidationError("invalid request body", err)
	}
	if req.DisplayName == "" {
		return gwerrors.NewValidationError("display_name is required", nil)
	}

	orgID := tenancy.ResolveFromRequest(r).OrgID
	srv, err := a.agg.Register(r.Context(), registry.ExternalServer{
		DisplayName: req.DisplayName,
		Description: req.Description,
		Transport:   registry.TransportKind(req.Transport),
		Command:     req.Command,
		Args:        req.Args,
		URL:         req.URL,
		Headers:     req.Headers,
		Visibility:  registry.Visibility{IsGlobal: req.IsGlobal, OrgID: orgID},
	})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(serverResponse{Server: toServerResponse(*srv)}); err != nil {
		return fmt.Errorf("encoding server response: %w", err)
	}
	return nil
}

// connectServer connects (or reconnects) a registered server.
//
//	@Summary		Connect an external server
//	@Tags			aggregator
//	@Param			id	path	string	true	"Server id"
//	@Success		204	{string}	string	"No Content"
//	@Failure		404	{string}	string	"Not Found"
//	@Router			/api/v1beta/aggregator/servers/{id}/connect [post]
func (a *AggregatorRoutes) connectServer(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if err := a.agg.Connect(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// disconnectServer gracefully disconnects a connected server.
//
//	@Summary		Disconnect an external server
//	@Tags			aggregator
//	@Param			id	path	string	true	"Server id"
//	@Success		204	{string}	string	"No Content"
//	@Failure		404	{string}	string	"Not Found"
//	@Router			/api/v1beta/aggregator/servers/{id}/disconnect [post]
func (a *AggregatorRoutes) disconnectServer(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if err := a.agg.Disconnect(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// removeServer disconnects (if connected), cascades owned capabilities, and
// deletes the server record.
//
//	@Summary		Remove an external server
//	@Tags			aggregator
//	@Param			id	path	string	true	"Server id"
//	@Success		204	{string}	string	"No Content"
//	@Failure		404	{string}	string	"Not Found"
//	@Router			/api/v1beta/aggregator/servers/{id} [delete]
func (a *AggregatorRoutes) removeServer(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if err := a.agg.Remove(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
