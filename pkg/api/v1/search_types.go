// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import "github.com/stacklok/toolhive-gateway/pkg/search"

// searchRequest is the wire shape of POST /search.
//
//	@Description	Hierarchical search request
type searchRequest struct {
	Query          string   `json:"query"`
	ItemType       string   `json:"item_type,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	SkillLimit     int      `json:"skill_limit,omitempty"`
	SkillThreshold float64  `json:"skill_threshold,omitempty"`
	ToolThreshold  float64  `json:"tool_threshold,omitempty"`
	IncludeSchemas bool     `json:"include_schemas,omitempty"`
	Strategy       string   `json:"strategy,omitempty"`
	ServerFilter   []string `json:"server_filter,omitempty"`
}

// searchResultItem is one ranked hit.
//
//	@Description	A single ranked search result
type searchResultItem struct {
	ID             string         `json:"id"`
	NamespacedName string         `json:"namespaced_name"`
	Description    string         `json:"description"`
	PrimarySkillID string         `json:"primary_skill_id"`
	Score          float64        `json:"score"`
	ServerID       string         `json:"server_id,omitempty"`
	ServerName     string         `json:"server_name,omitempty"`
	InputSchema    map[string]any `json:"input_schema,omitempty"`
	SchemaOmitted  bool           `json:"schema_omitted,omitempty"`
}

// searchSkillMatch is one Stage A hit.
//
//	@Description	A skill category matched during Stage A
type searchSkillMatch struct {
	SkillID string  `json:"skill_id"`
	Score   float64 `json:"score"`
}

// searchResponse is the wire shape of a search result set.
//
//	@Description	Search response
type searchResponse struct {
	Items    []searchResultItem `json:"items"`
	Skills   []searchSkillMatch `json:"skills"`
	Metadata searchMetadata     `json:"metadata"`
}

// searchMetadata reports how a request was actually served.
//
//	@Description	Metadata describing how the search was actually served
type searchMetadata struct {
	StrategyUsed    string   `json:"strategy_used"`
	SkillIDsUsed    []string `json:"skill_ids_used,omitempty"`
	ServersSearched []string `json:"servers_searched,omitempty"`
	FallbackReason  string   `json:"fallback_reason,omitempty"`
	DurationMs      int64    `json:"duration_ms"`
	Partial         bool     `json:"partial,omitempty"`
}

func newSearchResponse(resp search.Response) searchResponse {
	items := make([]searchResultItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		item := searchResultItem{
			ID:             it.ID,
			NamespacedName: it.NamespacedName,
			Description:    it.Description,
			PrimarySkillID: it.PrimarySkillID,
			Score:          it.Score,
			InputSchema:    it.InputSchema,
			SchemaOmitted:  it.SchemaOmitted,
		}
		if it.Source != nil {
			item.ServerID = it.Source.ServerID
			item.ServerName = it.Source.DisplayName
		}
		items = append(items, item)
	}

	skillMatches := make([]searchSkillMatch, 0, len(resp.Skills))
	for _, m := range resp.Skills {
		skillMatches = append(skillMatches, searchSkillMatch{SkillID: m.SkillID, Score: m.Score})
	}

	return searchResponse{
		Items:  items,
		Skills: skillMatches,
		Metadata: searchMetadata{
			StrategyUsed:    string(resp.Metadata.StrategyUsed),
			SkillIDsUsed:    resp.Metadata.SkillIDsUsed,
			ServersSearched: resp.Metadata.ServersSearched,
			FallbackReason:  resp.Metadata.FallbackReason,
			DurationMs:      resp.Metadata.DurationMS,
			Partial:         resp.Metadata.Partial,
		},
	}
}

// callToolRequest is the wire shape of POST /tools/call.
//
//	@Description	Tool call request
type callToolRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// callToolResponse is the wire shape of a tool call result.
//
//	@Description	Tool call response
type callToolResponse struct {
	Content    string `json:"content"`
	IsError    bool   `json:"is_error"`
	DurationMs int64  `json:"duration_ms"`
}
