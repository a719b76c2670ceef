// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package skills

import (
	"context"
	"fmt"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
)

// Store is the persistence boundary SkillService is built on. The
// capability registry (pkg/registry) implements it against its relational
// tables; tests substitute an in-memory fake.
type Store interface {
	ListSkillCategories(ctx context.Context, includeInactive bool) ([]Category, error)
	UpsertSkillCategory(ctx context.Context, in UpsertCategoryInput) (*Category, error)
	DeactivateSkillCategory(ctx context.Context, id string) error
	SkillCategoryExists(ctx context.Context, id string) (bool, error)

	ReplaceAssignments(ctx context.Context, toolID string, assignments []Assignment) error
	AssignmentsForTool(ctx context.Context, toolID string) ([]Assignment, error)

	ListSuggestions(ctx context.Context, status SuggestionStatus) ([]Suggestion, error)
	GetSuggestion(ctx context.Context, id string) (*Suggestion, error)
	SetSuggestionStatus(ctx context.Context, id string, status SuggestionStatus) error

	// ReclassifyTool re-runs the classification pipeline for a single tool,
	// used after a suggestion's skill is approved.
	ReclassifyTool(ctx context.Context, toolID string) error
}

type service struct {
	store Store
}

// NewService builds a SkillService backed by store.
func NewService(store Store) SkillService {
	return &service{store: store}
}

func (s *service) ListCategories(ctx context.Context, opts ListOptions) ([]Category, error) {
	cats, err := s.store.ListSkillCategories(ctx, opts.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("listing skill categories: %w", err)
	}
	return cats, nil
}

func (s *service) UpsertCategory(ctx context.Context, in UpsertCategoryInput) (*Category, error) {
	if !ValidateID(in.ID) {
		return nil, gwerrors.NewValidationError("skill id must match ^[a-z][a-z0-9_]*$", nil).
			WithDetails(gwerrors.Detail{Field: "id", Issue: "does not match required pattern"})
	}
	if in.DisplayName == "" {
		return nil, gwerrors.NewValidationError("display_name is required", nil).
			WithDetails(gwerrors.Detail{Field: "display_name", Issue: "must not be empty"})
	}
	cat, err := s.store.UpsertSkillCategory(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("upserting skill category %q: %w", in.ID, err)
	}
	return cat, nil
}

func (s *service) DeactivateCategory(ctx context.Context, id string) error {
	exists, err := s.store.SkillCategoryExists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking skill category %q: %w", id, err)
	}
	if !exists {
		return gwerrors.NewNotFoundError(fmt.Sprintf("skill category %q not found", id), nil)
	}
	if id == UncategorizedID {
		return gwerrors.NewValidationError("the uncategorized skill cannot be deactivated", nil)
	}
	if err := s.store.DeactivateSkillCategory(ctx, id); err != nil {
		return fmt.Errorf("deactivating skill category %q: %w", id, err)
	}
	return nil
}

func (s *service) SetAssignments(ctx context.Context, toolID string, in []SetAssignmentInput) ([]Assignment, error) {
	if len(in) == 0 {
		assignments := []Assignment{{ToolID: toolID, SkillID: UncategorizedID, Confidence: 1, Primary: true}}
		if err := s.store.ReplaceAssignments(ctx, toolID, assignments); err != nil {
			return nil, fmt.Errorf("replacing assignments for tool %q: %w", toolID, err)
		}
		return assignments, nil
	}

	primaryID, hasPrimary := ResolvePrimary(in)

	assignments := make([]Assignment, 0, len(in)+1)
	seenPrimary := false
	for _, a := range in {
		isPrimary := hasPrimary && a.SkillID == primaryID && !seenPrimary
		if isPrimary {
			seenPrimary = true
		}
		assignments = append(assignments, Assignment{
			ToolID:     toolID,
			SkillID:    a.SkillID,
			Confidence: a.Confidence,
			Primary:    isPrimary,
		})
	}
	if !hasPrimary {
		assignments = append(assignments, Assignment{
			ToolID: toolID, SkillID: UncategorizedID, Confidence: 1, Primary: true,
		})
	}

	if err := s.store.ReplaceAssignments(ctx, toolID, assignments); err != nil {
		return nil, fmt.Errorf("replacing assignments for tool %q: %w", toolID, err)
	}
	return assignments, nil
}

func (s *service) AssignmentsForTool(ctx context.Context, toolID string) ([]Assignment, error) {
	assignments, err := s.store.AssignmentsForTool(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("fetching assignments for tool %q: %w", toolID, err)
	}
	return assignments, nil
}

func (s *service) ListSuggestions(ctx context.Context, status SuggestionStatus) ([]Suggestion, error) {
	suggestions, err := s.store.ListSuggestions(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing skill suggestions: %w", err)
	}
	return suggestions, nil
}

func (s *service) ApproveSuggestion(ctx context.Context, id string) (*Category, error) {
	suggestion, err := s.store.GetSuggestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching skill suggestion %q: %w", id, err)
	}
	if suggestion == nil {
		return nil, gwerrors.NewNotFoundError(fmt.Sprintf("skill suggestion %q not found", id), nil)
	}
	if suggestion.Status != SuggestionPending {
		return nil, gwerrors.NewValidationError(
			fmt.Sprintf("skill suggestion %q is not pending (status=%s)", id, suggestion.Status), nil)
	}

	cat, err := s.store.UpsertSkillCategory(ctx, UpsertCategoryInput{
		ID:          suggestion.ProposedID,
		DisplayName: suggestion.ProposedName,
		Description: suggestion.Rationale,
	})
	if err != nil {
		return nil, fmt.Errorf("creating skill category from suggestion %q: %w", id, err)
	}
	if err := s.store.SetSuggestionStatus(ctx, id, SuggestionApproved); err != nil {
		return nil, fmt.Errorf("marking suggestion %q approved: %w", id, err)
	}
	if err := s.store.ReclassifyTool(ctx, suggestion.SourceToolID); err != nil {
		return nil, fmt.Errorf("reclassifying tool %q after suggestion approval: %w", suggestion.SourceToolID, err)
	}
	return cat, nil
}

func (s *service) RejectSuggestion(ctx context.Context, id string) error {
	suggestion, err := s.store.GetSuggestion(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching skill suggestion %q: %w", id, err)
	}
	if suggestion == nil {
		return gwerrors.NewNotFoundError(fmt.Sprintf("skill suggestion %q not found", id), nil)
	}
	if suggestion.Status != SuggestionPending {
		return gwerrors.NewValidationError(
			fmt.Sprintf("skill suggestion %q is not pending (status=%s)", id, suggestion.Status), nil)
	}
	if err := s.store.SetSuggestionStatus(ctx, id, SuggestionRejected); err != nil {
		return fmt.Errorf("marking suggestion %q rejected: %w", id, err)
	}
	return nil
}
