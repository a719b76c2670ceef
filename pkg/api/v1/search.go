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
	"github.com/stacklok/toolhive-gateway/pkg/search"
	"github.com/stacklok/toolhive-gateway/pkg/tenancy"
)

// SearchRoutes serves hierarchical search, skills-only search, and
// tool-call forwarding.
type SearchRoutes struct {
	search search.Service
	agg    aggregator.Aggregator
}

// RegisterSearchRoutes adds POST /search, GET /search/skills, and
// POST /tools/call to r.
func RegisterSearchRoutes(r chi.Router, svc search.Service, agg aggregator.Aggregator) {
	routes := SearchRoutes{search: svc, agg: agg}
	r.Post("/search", apierrors.ErrorHandler(routes.handleSearch))
	r.Get("/search/skills", apierrors.ErrorHandler(routes.searchSkills))
	r.Post("/tools/call", apierrors.ErrorHandler(routes.callTool))
}

// handleSearch runs the full hierarchical search.
//
//	@Summary		Hierarchical capability search
//	@Description	Two-stage search: narrow to candidate skills, then rank capabilities within them
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			request	body		searchRequest	true	"Search parameters"
//	@Success		200		{object}	searchResponse
//	@Failure		422		{string}	string	"Validation Error"
//	@Router			/api/v1beta/search [post]
func (s *SearchRoutes) handleSearch(w http.ResponseWriter, r *http.Request) error {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return gwerrors.NewValidationError("invalid request body", err)
	}

	orgID := tenancy.ResolveFromRequest(r).OrgID

	resp, err := s.search.Search(r.Context(), search.Request{
		Query:          req.Query,
		ItemType:       search.ItemKind(req.ItemType),
		OrgID:          orgID,
		Limit:          req.Limit,
		SkillLimit:     req.SkillLimit,
		SkillThreshold: req.SkillThreshold,
		ToolThreshold:  req.ToolThreshold,
		IncludeSchemas: req.IncludeSchemas,
		Strategy:       search.Strategy(req.Strategy),
		ServerFilter:   req.ServerFilter,
	})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newSearchResponse(resp)); err != nil {
		return fmt.Errorf("encoding search response: %w", err)
	}
	return nil
}

// searchSkills runs Stage A alone, for clients that only need the skill
// taxonomy narrowed.
//
//	@Summary		Skills-only search
//	@Description	Run Stage A alone: narrow the skill taxonomy to the query's best-matching categories
//	@Tags			search
//	@Produce		json
//	@Param			query		query		string	true	"Search query"
//	@Param			limit		query		int		false	"Max skills to return"
//	@Param			threshold	query		number	false	"Minimum centroid similarity"
//	@Success		200			{object}	searchResponse
//	@Failure		422			{string}	string	"Validation Error"
//	@Router			/api/v1beta/search/skills [get]
func (s *SearchRoutes) searchSkills(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		return gwerrors.NewValidationError("query is required", nil)
	}

	req := search.Request{
		Query:    query,
		OrgID:    tenancy.ResolveFromRequest(r).OrgID,
		Strategy: search.StrategySkillsOnly,
	}
	if v := q.Get("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			req.SkillLimit = n
		}
	}
	if v := q.Get("threshold"); v != "" {
		if f, err := parseFloat(v); err == nil {
			req.SkillThreshold = f
		}
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newSearchResponse(resp)); err != nil {
		return fmt.Errorf("encoding search response: %w", err)
	}
	return nil
}

// callTool forwards a tool call to the aggregator by namespaced name.
//
//	@Summary		Call an aggregated tool
//	@Description	Forward a tool call to the external server that owns it
//	@Tags			tools
//	@Accept			json
//	@Produce		json
//	@Param			request	body		callToolRequest	true	"Tool call"
//	@Success		200		{object}	callToolResponse
//	@Failure		404		{string}	string	"Not Found"
//	@Failure		422		{string}	string	"Validation Error"
//	@Router			/api/v1beta/tools/call [post]
func (s *SearchRoutes) callTool(w http.ResponseWriter, r *http.Request) error {
	var req callToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return gwerrors.NewValidationError("invalid request body", err)
	}
	if req.Name == "" {
		return gwerrors.NewValidationError("name is required", nil)
	}

	orgID := tenancy.ResolveFromRequest(r).OrgID

	result, err := s.agg.Call(r.Context(), orgID, req.Name, req.Arguments)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(callToolResponse{
		Content:    result.Content,
		IsError:    result.IsError,
		DurationMs: result.DurationMs,
	}); err != nil {
		return fmt.Errorf("encoding tool call response: %w", err)
	}
	return nil
}
