// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import "github.com/stacklok/toolhive-gateway/pkg/skills"

// skillListResponse represents the response for listing skill categories.
//
//	@Description	Response containing a list of skill categories
type skillListResponse struct {
	Skills []skills.Category `json:"skills"`
}

// upsertSkillRequest represents the request to create or update a skill
// category.
//
//	@Description	Request to create or update a skill category
type upsertSkillRequest struct {
	// Stable identifier matching ^[a-z][a-z0-9_]*$
	ID string `json:"id"`
	// Human-readable display name
	DisplayName string `json:"display_name"`
	// Free-text description
	Description string `json:"description,omitempty"`
	// Keywords used by the classifier prompt
	Keywords []string `json:"keywords,omitempty"`
	// Example tool names used by the classifier prompt
	ExampleTools []string `json:"example_tools,omitempty"`
}

// skillResponse wraps a single skill category.
//
//	@Description	Response containing a single skill category
type skillResponse struct {
	Skill skills.Category `json:"skill"`
}

// suggestionListResponse represents the response for listing skill
// suggestions.
//
//	@Description	Response containing a list of skill suggestions
type suggestionListResponse struct {
	Suggestions []skills.Suggestion `json:"suggestions"`
}
