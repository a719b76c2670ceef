// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package skills implements skill-category management: the human-curated
// taxonomy that the hierarchical search service routes through, and the
// suggestion queue the classifier feeds when a tool doesn't fit any
// existing category.
package skills

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=skills.go SkillService

import (
	"context"
	"regexp"
	"time"
)

// UncategorizedID is the sentinel skill every tool falls back to when no
// assignment reaches the primary-confidence floor.
const UncategorizedID = "uncategorized"

// PrimaryConfidenceFloor is the minimum confidence an assignment must reach
// to be eligible as a tool's primary skill.
const PrimaryConfidenceFloor = 0.5

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// SuggestionStatus is the lifecycle state of a Suggestion.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// Category is a skill taxonomy node.
type Category struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Description  string    `json:"description"`
	Keywords     []string  `json:"keywords"`
	ExampleTools []string  `json:"example_tools"`
	Active       bool      `json:"active"`
	ToolCount    int       `json:"tool_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Assignment links a tool to a skill with a confidence and primary flag.
type Assignment struct {
	ToolID     string  `json:"tool_id"`
	SkillID    string  `json:"skill_id"`
	Confidence float64 `json:"confidence"`
	Primary    bool    `json:"primary"`
}

// Suggestion is a classifier-proposed new skill awaiting admin review.
type Suggestion struct {
	ID           string           `json:"id"`
	ProposedID   string           `json:"proposed_id"`
	ProposedName string           `json:"proposed_name"`
	Rationale    string           `json:"rationale"`
	SourceToolID string           `json:"source_tool_id"`
	Status       SuggestionStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ValidateID reports whether id matches the skill identifier pattern
// ^[a-z][a-z0-9_]*$.
func ValidateID(id string) bool {
	return idPattern.MatchString(id)
}

// ListOptions filters ListCategories.
type ListOptions struct {
	// IncludeInactive includes deactivated skills in the result.
	IncludeInactive bool
}

// UpsertCategoryInput is the payload for creating or updating a Category.
type UpsertCategoryInput struct {
	ID           string
	DisplayName  string
	Description  string
	Keywords     []string
	ExampleTools []string
}

// SetAssignmentInput is one element of a SetAssignments call.
type SetAssignmentInput struct {
	SkillID    string
	Confidence float64
}

// SkillService is the application-facing API for skill-category management
// and suggestion review. It is backed by the capability registry's
// relational store.
type SkillService interface {
	// ListCategories returns active (and, if requested, inactive) skill
	// categories visible to the caller.
	ListCategories(ctx context.Context, opts ListOptions) ([]Category, error)
	// UpsertCategory creates or updates a skill category.
	UpsertCategory(ctx context.Context, in UpsertCategoryInput) (*Category, error)
	// DeactivateCategory soft-deletes a skill category; existing
	// assignments remain but the skill is excluded from active search.
	DeactivateCategory(ctx context.Context, id string) error

	// SetAssignments atomically replaces all skill assignments for a tool:
	// it removes previous assignments, writes the new set, and marks
	// exactly one as primary per PrimaryConfidenceFloor. If no assignment
	// reaches the floor, the tool is assigned to UncategorizedID.
	SetAssignments(ctx context.Context, toolID string, assignments []SetAssignmentInput) ([]Assignment, error)
	// AssignmentsForTool returns the current assignments for a tool.
	AssignmentsForTool(ctx context.Context, toolID string) ([]Assignment, error)

	// ListSuggestions returns suggestions in the given status (all
	// statuses if status is "").
	ListSuggestions(ctx context.Context, status SuggestionStatus) ([]Suggestion, error)
	// ApproveSuggestion creates a skill category with id=proposed_id and
	// triggers re-classification of the suggestion's source tool.
	ApproveSuggestion(ctx context.Context, id string) (*Category, error)
	// RejectSuggestion marks a suggestion rejected without creating a
	// skill category.
	RejectSuggestion(ctx context.Context, id string) error
}

// ResolvePrimary picks the primary assignment from a confidence-ranked set:
// the highest-confidence assignment if it meets PrimaryConfidenceFloor,
// else UncategorizedID with no primary assignment among in.
func ResolvePrimary(in []SetAssignmentInput) (primarySkillID string, ok bool) {
	best := -1.0
	bestIdx := -1
	for i, a := range in {
		if a.Confidence > best {
			best = a.Confidence
			bestIdx = i
		}
	}
	if bestIdx == -1 || best < PrimaryConfidenceFloor {
		return UncategorizedID, false
	}
	return in[bestIdx].SkillID, true
}
