// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package vectorindex implements the two vector collections the
// hierarchical search service queries: one holding tool/prompt/resource
// embeddings, the other holding per-skill centroid embeddings.
package vectorindex

//go:generate mockgen -destination=mocks/mock_index.go -package=mocks -source=vectorindex.go Index

import (
	"context"
	"time"
)

// Collection names the two vector collections.
type Collection string

const (
	CollectionTools  Collection = "tools"
	CollectionSkills Collection = "skills"
)

// Entry is a single vector and its retrieval payload.
type Entry struct {
	ID                  string
	Embedding           []float32
	CapabilityID        string
	Kind                string
	SkillIDs            []string
	PrimarySkillID      string
	OrgID               string
	IsGlobal            bool
	TextUsedForEmbedding string
	ToolCount           int // set only for CollectionSkills centroid entries
	UpdatedAt           time.Time
}

// Filter restricts a Search call. ServerFilter, when non-empty, further
// restricts external tools to those owned by one of the listed server IDs.
type Filter struct {
	OrgID           string
	IncludeGlobal   bool
	Kind            string
	SkillIDs        []string
	ConnectedServers []string
	ServerFilter    []string
}

// Match is one scored hit from Search.
type Match struct {
	Entry    Entry
	Score    float64
}

// SearchOptions configures Search's ranking mode.
type SearchOptions struct {
	// Hybrid blends cosine similarity with lexical rank when true; pure
	// vector search otherwise.
	Hybrid bool
	// QueryText is required when Hybrid is true, used for the lexical side
	// of the blend.
	QueryText string
	Limit     int
}

// Index is the vector storage boundary C6 depends on.
type Index interface {
	// Upsert writes or replaces a vector entry in collection.
	Upsert(ctx context.Context, collection Collection, entry Entry) error
	// Delete removes a vector entry by id.
	Delete(ctx context.Context, collection Collection, id string) error
	// Search performs a k-NN (or hybrid) search within collection, scoped by
	// filter, returning up to opts.Limit matches ordered by descending
	// score.
	Search(ctx context.Context, collection Collection, queryEmbedding []float32, filter Filter, opts SearchOptions) ([]Match, error)
	// Centroid computes the mean embedding across every tool vector
	// assigned to skillID, for the sync service's per-skill centroid
	// recompute. Returns a nil vector and count 0 when no tool is assigned.
	Centroid(ctx context.Context, skillID string) ([]float32, int, error)
}
