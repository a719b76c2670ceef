// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/stacklok/toolhive-gateway/pkg/api/errors"
	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/skills"
)

// SkillsRoutes defines the routes for skill category management and
// suggestion review.
type SkillsRoutes struct {
	skillService skills.SkillService
}

// SkillsRouter creates a new router for skill category endpoints, mounted
// at /api/v1beta/skills.
func SkillsRouter(skillService skills.SkillService) http.Handler {
	routes := SkillsRoutes{
		skillService: skillService,
	}

	r := chi.NewRouter()
	r.Get("/", apierrors.ErrorHandler(routes.listSkills))
	r.Post("/", apierrors.ErrorHandler(routes.upsertSkill))
	r.Post("/{id}/deactivate", apierrors.ErrorHandler(routes.deactivateSkill))
	r.Get("/suggestions", apierrors.ErrorHandler(routes.listSuggestions))
	r.Post("/suggestions/{id}/approve", apierrors.ErrorHandler(routes.approveSuggestion))
	r.Post("/suggestions/{id}/reject", apierrors.ErrorHandler(routes.rejectSuggestion))

	return r
}

// listSkills returns all skill categories.
//
//	@Summary		List skill categories
//	@Description	Get the active skill category taxonomy, optionally including deactivated ones
//	@Tags			skills
//	@Produce		json
//	@Param			include_inactive	query		bool	false	"Include deactivated skill categories"
//	@Success		200					{object}	skillListResponse
//	@Failure		500					{string}	string	"Internal Server Error"
//	@Router			/api/v1beta/skills [get]
func (s *SkillsRoutes) listSkills(w http.ResponseWriter, r *http.Request) error {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	result, err := s.skillService.ListCategories(r.Context(), skills.ListOptions{IncludeInactive: includeInactive})
	if err != nil {
		return fmt.Errorf("listing skill categories: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(skillListResponse{Skills: result}); err != nil {
		return fmt.Errorf("encoding skill list: %w", err)
	}
	return nil
}

// upsertSkill creates or updates a skill category.
//
//	@Summary		Create or update a skill category
//	@Description	Create a new skill category, or update an existing one by id
//	@Tags			skills
//	@Accept			json
//	@Produce		json
//	@Param			request	body		upsertSkillRequest	true	"Skill category"
//	@Success		200		{object}	skillResponse
//	@Failure		422		{string}	string	"Validation Error"
//	@Failure		500		{string}	string	"Internal Server Error"
//	@Router			/api/v1beta/skills [post]
func (s *SkillsRoutes) upsertSkill(w http.ResponseWriter, r *http.Request) error {
	var req upsertSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return gwerrors.NewValidationError("invalid request body", err)
	}

	cat, err := s.skillService.UpsertCategory(r.Context(), skills.UpsertCategoryInput{
		ID:           req.ID,
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		Keywords:     req.Keywords,
		ExampleTools: req.ExampleTools,
	})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(skillResponse{Skill: *cat}); err != nil {
		return fmt.Errorf("encoding skill response: %w", err)
	}
	return nil
}

// deactivateSkill soft-deletes a skill category.
//
//	@Summary		Deactivate a skill category
//	@Description	Soft-delete a skill category; existing assignments remain but it is excluded from active search
//	@Tags			skills
//	@Param			id	path		string	true	"Skill category id"
//	@Success		204	{string}	string	"No Content"
//	@Failure		404	{string}	string	"Not Found"
//	@Failure		422	{string}	string	"Validation Error"
//	@Router			/api/v1beta/skills/{id}/deactivate [post]
func (s *SkillsRoutes) deactivateSkill(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	if err := s.skillService.DeactivateCategory(r.Context(), id); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// listSuggestions returns classifier-proposed skill suggestions.
//
//	@Summary		List skill suggestions
//	@Description	List classifier-proposed new skill categories awaiting review
//	@Tags			skills
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"	Enums(pending, approved, rejected)
//	@Success		200		{object}	suggestionListResponse
//	@Failure		500		{string}	string	"Internal Server Error"
//	@Router			/api/v1beta/skills/suggestions [get]
func (s *SkillsRoutes) listSuggestions(w http.ResponseWriter, r *http.Request) error {
	status := skills.SuggestionStatus(r.URL.Query().Get("status"))

	result, err := s.skillService.ListSuggestions(r.Context(), status)
	if err != nil {
		return fmt.Errorf("listing skill suggestions: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(suggestionListResponse{Suggestions: result}); err != nil {
		return fmt.Errorf("encoding suggestion list: %w", err)
	}
	return nil
}

// approveSuggestion approves a pending suggestion, creating its skill
// category and re-classifying the source tool.
//
//	@Summary		Approve a skill suggestion
//	@Description	Create the proposed skill category and re-classify its source tool
//	@Tags			skills
//	@Produce		json
//	@Param			id	path		string	true	"Suggestion id"
//	@Success		200	{object}	skillResponse
//	@Failure		404	{string}	string	"Not Found"
//	@Failure		422	{string}	string	"Validation Error"
//	@Router			/api/v1beta/skills/suggestions/{id}/approve [post]
func (s *SkillsRoutes) approveSuggestion(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	cat, err := s.skillService.ApproveSuggestion(r.Context(), id)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(skillResponse{Skill: *cat}); err != nil {
		return fmt.Errorf("encoding skill response: %w", err)
	}
	return nil
}

// rejectSuggestion rejects a pending suggestion without creating a skill.
//
//	@Summary		Reject a skill suggestion
//	@Description	Mark a pending skill suggestion rejected
//	@Tags			skills
//	@Param			id	path		string	true	"Suggestion id"
//	@Success		204	{string}	string	"No Content"
//	@Failure		404	{string}	string	"Not Found"
//	@Failure		422	{string}	string	"Validation Error"
//	@Router			/api/v1beta/skills/suggestions/{id}/reject [post]
func (s *SkillsRoutes) rejectSuggestion(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	if err := s.skillService.RejectSuggestion(r.Context(), id); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
