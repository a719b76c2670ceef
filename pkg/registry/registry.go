// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package registry is the authoritative relational store of tools, prompts,
// resources, skill categories, skill assignments, and external-server
// records. It is the single source of truth C5 writes through and C6 falls
// back to for direct (non-semantic) lookups.
package registry

//go:generate mockgen -destination=mocks/mock_registry.go -package=mocks -source=registry.go Registry

import (
	"context"
	"time"

	"github.com/stacklok/toolhive-gateway/pkg/skills"
)

// Origin distinguishes internally-defined capabilities from ones discovered
// on a connected external server.
type Origin string

const (
	OriginInternal Origin = "internal"
	OriginExternal Origin = "external"
)

// Visibility is embedded in every capability-like row.
type Visibility struct {
	IsGlobal bool
	OrgID    string // empty when IsGlobal
}

// Capability carries the fields common to Tool, Prompt, and Resource.
type Capability struct {
	ID          string
	Name        string
	Description string
	Schema      map[string]any // optional structured parameter schema
	Visibility  Visibility
	Origin      Origin
	ServerID    string // owning external server, set iff Origin == OriginExternal
	Active      bool
	Classified  bool // false until C4 has produced assignments; stays false after a classification failure
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tool extends Capability with schemas and, for external tools, the
// upstream server's own name for it.
type Tool struct {
	Capability
	InputSchema  map[string]any
	OutputSchema map[string]any
	OriginalName string // set iff Origin == OriginExternal
}

// Prompt extends Capability with argument descriptors and a template body.
type Prompt struct {
	Capability
	Arguments []PromptArgument
	Template  string
}

// PromptArgument describes one named, optionally-required prompt argument.
type PromptArgument struct {
	Name        string
	Description string
	Required    bool
}

// Resource extends Capability with an access scheme, an owner, and an ACL.
type Resource struct {
	Capability
	Scheme string // e.g. "memory://", "weather://"
	Owner  string
	ACL    []string
}

// TransportKind names an external server's wire transport.
type TransportKind string

const (
	TransportStdio TransportKind = "stdio"
	TransportSSE   TransportKind = "sse"
	TransportHTTP  TransportKind = "http"
)

// ServerStatus mirrors the aggregator's connection state machine.
type ServerStatus string

const (
	ServerPending      ServerStatus = "pending"
	ServerConnected    ServerStatus = "connected"
	ServerDegraded     ServerStatus = "degraded"
	ServerDisconnected ServerStatus = "disconnected"
	ServerError        ServerStatus = "error"
)

// ExternalServer is an admin-managed remote MCP server record.
type ExternalServer struct {
	ID                  string
	DisplayName         string
	Description         string
	Transport           TransportKind
	Command             string   // stdio
	Args                []string // stdio
	URL                 string   // sse/http
	Headers             map[string]string
	Status              ServerStatus
	LastHealthProbeAt   time.Time
	ConsecutiveFailures int
	Visibility          Visibility
	DiscoveredToolIDs   []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CapabilityState is the sync-service state machine value persisted on
// every capability row.
type CapabilityState string

const (
	StateNew         CapabilityState = "new"
	StateEmbedding   CapabilityState = "embedding"
	StateClassifying CapabilityState = "classifying"
	StateIndexed     CapabilityState = "indexed"
	StateFailed      CapabilityState = "failed"
)

// ListFilter scopes a list_* call by tenancy and active flag.
type ListFilter struct {
	OrgID           string
	IncludeGlobal   bool
	IncludeInactive bool
}

// CreateToolInput is the payload for create_tool.
type CreateToolInput struct {
	Name         string
	Description  string
	InputSchema  map[string]any
	OutputSchema map[string]any
	Visibility   Visibility
	Origin       Origin
	ServerID     string
	OriginalName string
}

// CreatePromptInput is the payload for create_prompt.
type CreatePromptInput struct {
	Name        string
	Description string
	Arguments   []PromptArgument
	Template    string
	Visibility  Visibility
	Origin      Origin
	ServerID    string
}

// CreateResourceInput is the payload for create_resource.
type CreateResourceInput struct {
	Name        string
	Description string
	Scheme      string
	Owner       string
	ACL         []string
	Visibility  Visibility
	Origin      Origin
	ServerID    string
}

// Registry is the transactional capability store. Every read is scoped by
// ListFilter/single-row tenancy checks applied by the implementation. Its
// skill-related methods have the exact shape skills.Store requires, so a
// Registry can back a skills.SkillService directly via SkillStore.
type Registry interface {
	CreateTool(ctx context.Context, in CreateToolInput) (*Tool, error)
	GetTool(ctx context.Context, id string) (*Tool, error)
	ListTools(ctx context.Context, f ListFilter) ([]Tool, error)
	UpdateTool(ctx context.Context, id string, mutate func(*Tool)) (*Tool, error)
	DeactivateTool(ctx context.Context, id string) error
	DeleteTool(ctx context.Context, id string) error

	CreatePrompt(ctx context.Context, in CreatePromptInput) (*Prompt, error)
	GetPrompt(ctx context.Context, id string) (*Prompt, error)
	ListPrompts(ctx context.Context, f ListFilter) ([]Prompt, error)
	DeactivatePrompt(ctx context.Context, id string) error
	DeletePrompt(ctx context.Context, id string) error

	CreateResource(ctx context.Context, in CreateResourceInput) (*Resource, error)
	GetResource(ctx context.Context, id string) (*Resource, error)
	ListResources(ctx context.Context, f ListFilter) ([]Resource, error)
	DeactivateResource(ctx context.Context, id string) error
	DeleteResource(ctx context.Context, id string) error

	SetCapabilityState(ctx context.Context, id string, state CapabilityState) error
	MarkClassified(ctx context.Context, id string, classified bool) error

	ListSkillCategories(ctx context.Context, includeInactive bool) ([]skills.Category, error)
	UpsertSkillCategory(ctx context.Context, in skills.UpsertCategoryInput) (*skills.Category, error)
	DeactivateSkillCategory(ctx context.Context, id string) error
	SkillCategoryExists(ctx context.Context, id string) (bool, error)

	ReplaceAssignments(ctx context.Context, toolID string, assignments []skills.Assignment) error
	AssignmentsForTool(ctx context.Context, toolID string) ([]skills.Assignment, error)

	ListSuggestions(ctx context.Context, status skills.SuggestionStatus) ([]skills.Suggestion, error)
	GetSuggestion(ctx context.Context, id string) (*skills.Suggestion, error)
	SetSuggestionStatus(ctx context.Context, id string, status skills.SuggestionStatus) error
	CreateSuggestion(ctx context.Context, s skills.Suggestion) (*skills.Suggestion, error)

	CreateExternalServer(ctx context.Context, s ExternalServer) (*ExternalServer, error)
	GetExternalServer(ctx context.Context, id string) (*ExternalServer, error)
	ListExternalServers(ctx context.Context, f ListFilter) ([]ExternalServer, error)
	SetExternalServerStatus(ctx context.Context, id string, status ServerStatus, consecutiveFailures int) error
	DeleteExternalServer(ctx context.Context, id string) error
}
