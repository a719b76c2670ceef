// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package search implements the two-stage hierarchical capability search:
// a skill-selection pass narrows the catalog to a handful of candidate
// skills, then a tool-retrieval pass ranks capabilities within those
// skills. Both stages fall back gracefully, never recursively, and the
// result set is always re-checked against currently connectable external
// servers before it leaves the service.
package search

//go:generate mockgen -destination=mocks/mock_search.go -package=mocks -source=search.go Service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	"github.com/stacklok/toolhive-gateway/pkg/vectorindex"
)

var tracer = otel.Tracer("github.com/stacklok/toolhive-gateway/pkg/search")

// Strategy selects how much of the two-stage algorithm runs.
type Strategy string

const (
	StrategyHierarchical Strategy = "hierarchical"
	StrategyDirect       Strategy = "direct"
	StrategySkillsOnly   Strategy = "skills_only"
)

// ItemKind names the capability kind a search targets.
type ItemKind string

const (
	ItemTool     ItemKind = "tool"
	ItemPrompt   ItemKind = "prompt"
	ItemResource ItemKind = "resource"
)

// Default parameter values, per the public search operation's signature.
const (
	DefaultLimit          = 5
	DefaultSkillLimit     = 3
	DefaultSkillThreshold = 0.4
	DefaultToolThreshold  = 0.3

	// DefaultSchemaByteBudget approximates 5000 tokens at ~4 bytes/token.
	DefaultSchemaByteBudget = 20000
)

// Per-stage and overall timeout budgets. A stage that overruns its budget
// does not fail the request: Search returns whatever stages completed,
// with ResponseMetadata.Partial set, rather than propagating the timeout
// as an error.
const (
	EmbedTimeout  = 5 * time.Second
	StageATimeout = 2 * time.Second
	StageBTimeout = 2 * time.Second
	TotalBudget   = 10 * time.Second
)

// Request is the public search operation's input.
type Request struct {
	Query          string
	ItemType       ItemKind
	OrgID          string
	Limit          int
	SkillLimit     int
	SkillThreshold float64
	ToolThreshold  float64
	IncludeSchemas bool
	Strategy       Strategy
	ServerFilter   []string // restrict external tools to these server ids, when non-empty
}

func (r Request) withDefaults() Request {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.SkillLimit <= 0 {
		r.SkillLimit = DefaultSkillLimit
	}
	if r.SkillThreshold <= 0 {
		r.SkillThreshold = DefaultSkillThreshold
	}
	if r.ToolThreshold <= 0 {
		r.ToolThreshold = DefaultToolThreshold
	}
	if r.Strategy == "" {
		r.Strategy = StrategyHierarchical
	}
	return r
}

// SkillMatch is one Stage A hit.
type SkillMatch struct {
	SkillID string
	Score   float64
}

// ServerRef identifies the external server an external result came from.
type ServerRef struct {
	ServerID    string
	DisplayName string
}

// ResultItem is one Stage B hit, shaped for direct serialization.
type ResultItem struct {
	ID             string
	NamespacedName string
	Description    string
	PrimarySkillID string
	Score          float64
	Source         *ServerRef // nil for internal capabilities
	InputSchema    map[string]any
	SchemaOmitted  bool
}

// ResponseMetadata reports how a request was actually served.
type ResponseMetadata struct {
	StrategyUsed    Strategy
	SkillIDsUsed    []string
	ServersSearched []string
	FallbackReason  string // empty unless hierarchical fell back to direct or a stage timed out
	DurationMS      int64

	// Partial is set when the overall search budget or a per-stage budget
	// was exceeded and Search returned whatever stage(s) had completed
	// rather than propagating a timeout error.
	Partial bool
}

// Response is the public search operation's output.
type Response struct {
	Items    []ResultItem
	Skills   []SkillMatch
	Metadata ResponseMetadata
}

// Embedder is the subset of pkg/embedding.Client that search depends on.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service is the public search operation.
type Service interface {
	Search(ctx context.Context, req Request) (Response, error)
}

type service struct {
	embedder         Embedder
	index            vectorindex.Index
	reg              registry.Registry
	schemaByteBudget int
}

var _ Service = (*service)(nil)

// New builds a Service. schemaByteBudget <= 0 defaults to
// DefaultSchemaByteBudget.
func New(embedder Embedder, index vectorindex.Index, reg registry.Registry, schemaByteBudget int) Service {
	if schemaByteBudget <= 0 {
		schemaByteBudget = DefaultSchemaByteBudget
	}
	return &service{embedder: embedder, index: index, reg: reg, schemaByteBudget: schemaByteBudget}
}

// Search implements Service. The whole call is bounded by TotalBudget, and
// each stage additionally has its own tighter budget; a stage that overruns
// its budget or the total budget does not fail the request, it returns
// whatever stages already completed with Metadata.Partial set.
func (s *service) Search(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	req = req.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, TotalBudget)
	defer cancel()

	resp := Response{Metadata: ResponseMetadata{StrategyUsed: req.Strategy}}

	embedCtx, embedCancel := context.WithTimeout(ctx, EmbedTimeout)
	queryEmbedding, err := s.embedder.Embed(embedCtx, req.Query)
	embedCancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			resp.Metadata.Partial = true
			resp.Metadata.FallbackReason = "embed_timed_out"
			resp.Metadata.DurationMS = time.Since(start).Milliseconds()
			return resp, nil
		}
		return Response{}, gwerrors.NewEmbeddingBackendUnavailableError("search query embedding failed", err)
	}

	strategyUsed := req.Strategy
	var matchedSkillIDs []string

	if req.Strategy == StrategyHierarchical || req.Strategy == StrategySkillsOnly {
		stageACtx, stageACancel := context.WithTimeout(ctx, StageATimeout)
		skillMatches, err := s.stageA(stageACtx, queryEmbedding, req)
		stageACancel()
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			resp.Metadata.Partial = true
			resp.Metadata.FallbackReason = "stage_a_timed_out"
			resp.Metadata.StrategyUsed = req.Strategy
			resp.Metadata.DurationMS = time.Since(start).Milliseconds()
			return resp, nil
		case err != nil && req.Strategy == StrategySkillsOnly:
			return Response{}, gwerrors.NewSearchBackendError("skill search failed", err)
		case err != nil:
			strategyUsed = StrategyDirect
			resp.Metadata.FallbackReason = "stage_a_failed"
		default:
			resp.Skills = skillMatches
			matchedSkillIDs = skillIDsOf(skillMatches)
			if len(matchedSkillIDs) == 0 && req.Strategy == StrategyHierarchical {
				strategyUsed = StrategyDirect
				resp.Metadata.FallbackReason = "no_skills_matched"
			}
		}
	}

	if req.Strategy == StrategySkillsOnly {
		resp.Metadata.StrategyUsed = StrategySkillsOnly
		resp.Metadata.DurationMS = time.Since(start).Milliseconds()
		return resp, nil
	}

	stageBCtx, stageBCancel := context.WithTimeout(ctx, StageBTimeout)
	items, serversSearched, err := s.stageB(stageBCtx, queryEmbedding, req, matchedSkillIDs, strategyUsed)
	stageBCancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			resp.Metadata.Partial = true
			resp.Metadata.FallbackReason = "stage_b_timed_out"
			resp.Metadata.StrategyUsed = strategyUsed
			resp.Metadata.SkillIDsUsed = matchedSkillIDs
			resp.Metadata.DurationMS = time.Since(start).Milliseconds()
			return resp, nil
		}
		return Response{}, gwerrors.NewSearchBackendError("tool search failed", err)
	}

	resp.Items = items
	resp.Metadata.StrategyUsed = strategyUsed
	resp.Metadata.SkillIDsUsed = matchedSkillIDs
	resp.Metadata.ServersSearched = serversSearched
	if ctx.Err() != nil {
		resp.Metadata.Partial = true
	}
	resp.Metadata.DurationMS = time.Since(start).Milliseconds()
	return resp, nil
}

func skillIDsOf(matches []SkillMatch) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.SkillID)
	}
	return ids
}

// stageA selects up to req.SkillLimit skills whose centroid is similar
// enough to the query. Partial results (fewer than SkillLimit) are
// acceptable; only a backend error is reported up.
func (s *service) stageA(ctx context.Context, queryEmbedding []float32, req Request) ([]SkillMatch, error) {
	ctx, span := tracer.Start(ctx, "search.stage_a", trace.WithAttributes(
		attribute.String("org_id", req.OrgID),
		attribute.Int("skill_limit", req.SkillLimit),
		attribute.Float64("skill_threshold", req.SkillThreshold),
	))
	defer span.End()

	matches, err := s.index.Search(ctx, vectorindex.CollectionSkills, queryEmbedding, vectorindex.Filter{
		OrgID: req.OrgID,
	}, vectorindex.SearchOptions{Limit: req.SkillLimit * 4})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stage a vector search failed")
		return nil, err
	}

	out := make([]SkillMatch, 0, req.SkillLimit)
	for _, m := range matches {
		if m.Score < req.SkillThreshold {
			continue
		}
		out = append(out, SkillMatch{SkillID: m.Entry.ID, Score: m.Score})
		if len(out) >= req.SkillLimit {
			break
		}
	}
	span.SetAttributes(attribute.Int("skills_matched", len(out)))
	return out, nil
}

// stageB retrieves and ranks candidate tools/prompts/resources, then
// filters out any external capability whose owning server is no longer
// connectable. The candidate list is fetched once (overfetched beyond
// req.Limit) so that dropped external results can be backfilled from the
// remaining candidates in a single pass, without a second round trip.
func (s *service) stageB(ctx context.Context, queryEmbedding []float32, req Request, matchedSkillIDs []string, strategyUsed Strategy) ([]ResultItem, []string, error) {
	ctx, span := tracer.Start(ctx, "search.stage_b", trace.WithAttributes(
		attribute.String("org_id", req.OrgID),
		attribute.String("item_type", string(req.ItemType)),
		attribute.String("strategy", string(strategyUsed)),
	))
	defer span.End()

	overfetch := req.Limit * 4
	if overfetch < req.Limit+10 {
		overfetch = req.Limit + 10
	}

	filter := vectorindex.Filter{OrgID: req.OrgID, Kind: string(req.ItemType)}
	if strategyUsed == StrategyHierarchical {
		filter.SkillIDs = matchedSkillIDs
	}

	matches, err := s.index.Search(ctx, vectorindex.CollectionTools, queryEmbedding, filter, vectorindex.SearchOptions{Limit: overfetch})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stage b vector search failed")
		return nil, nil, err
	}

	candidates := make([]vectorindex.Match, 0, len(matches))
	for _, m := range matches {
		if m.Score >= req.ToolThreshold {
			candidates = append(candidates, m)
		}
	}
	sortCandidates(candidates, matchedSkillIDs)

	connectable, err := s.connectableServers(ctx, req.OrgID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "connectable server lookup failed")
		return nil, nil, err
	}

	serverFilterSet := toSet(req.ServerFilter)
	items := make([]ResultItem, 0, req.Limit)
	serversSearched := map[string]struct{}{}
	usedSchemaBytes := 0

	for _, m := range candidates {
		if len(items) >= req.Limit {
			break
		}
		meta, err := s.loadMeta(ctx, req.ItemType, m.Entry.CapabilityID)
		if err != nil || meta == nil || !meta.active {
			continue // deleted/deactivated since indexing; drop silently
		}

		var source *ServerRef
		if meta.origin == registry.OriginExternal {
			displayName, ok := connectable[meta.serverID]
			if !ok {
				continue // server no longer connected/degraded; topped up below
			}
			if len(serverFilterSet) > 0 {
				if _, allowed := serverFilterSet[meta.serverID]; !allowed {
					continue
				}
			}
			serversSearched[meta.serverID] = struct{}{}
			source = &ServerRef{ServerID: meta.serverID, DisplayName: displayName}
		}

		item := ResultItem{
			ID:             meta.id,
			NamespacedName: namespacedName(meta, source),
			Description:    meta.description,
			PrimarySkillID: m.Entry.PrimarySkillID,
			Score:          m.Score,
			Source:         source,
		}
		if req.IncludeSchemas {
			attachSchema(&item, meta, s.schemaByteBudget, &usedSchemaBytes)
		}
		items = append(items, item)
	}

	servers := make([]string, 0, len(serversSearched))
	for id := range serversSearched {
		servers = append(servers, id)
	}
	sort.Strings(servers)

	span.SetAttributes(attribute.Int("candidates", len(candidates)), attribute.Int("results", len(items)))
	return items, servers, nil
}

func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// sortCandidates orders by descending score, breaking ties in favor of a
// tool whose primary skill is in matchedSkillIDs, then by ascending id.
func sortCandidates(matches []vectorindex.Match, matchedSkillIDs []string) {
	matchedSet := toSet(matchedSkillIDs)
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		_, aMatch := matchedSet[a.Entry.PrimarySkillID]
		_, bMatch := matchedSet[b.Entry.PrimarySkillID]
		if aMatch != bMatch {
			return aMatch
		}
		return a.Entry.ID < b.Entry.ID
	})
}

type capabilityMeta struct {
	id           string
	name         string
	description  string
	origin       registry.Origin
	serverID     string
	originalName string
	inputSchema  map[string]any
	active       bool
}

func (s *service) loadMeta(ctx context.Context, kind ItemKind, capabilityID string) (*capabilityMeta, error) {
	switch kind {
	case ItemTool:
		t, err := s.reg.GetTool(ctx, capabilityID)
		if err != nil {
			return nil, nil //nolint:nilerr // not-found is a silent drop, not a search failure
		}
		return &capabilityMeta{
			id: t.ID, name: t.Name, description: t.Description, origin: t.Origin,
			serverID: t.ServerID, originalName: t.OriginalName, inputSchema: t.InputSchema, active: t.Active,
		}, nil
	case ItemPrompt:
		p, err := s.reg.GetPrompt(ctx, capabilityID)
		if err != nil {
			return nil, nil //nolint:nilerr
		}
		return &capabilityMeta{
			id: p.ID, name: p.Name, description: p.Description, origin: p.Origin,
			serverID: p.ServerID, active: p.Active,
		}, nil
	case ItemResource:
		r, err := s.reg.GetResource(ctx, capabilityID)
		if err != nil {
			return nil, nil //nolint:nilerr
		}
		return &capabilityMeta{
			id: r.ID, name: r.Name, description: r.Description, origin: r.Origin,
			serverID: r.ServerID, active: r.Active,
		}, nil
	default:
		return nil, fmt.Errorf("search: unknown item type %q", kind)
	}
}

func namespacedName(meta *capabilityMeta, source *ServerRef) string {
	if source == nil {
		return meta.name
	}
	original := meta.originalName
	if original == "" {
		original = meta.name
	}
	return fmt.Sprintf("%s.%s", source.DisplayName, original)
}

// attachSchema sets InputSchema on item unless doing so would exceed the
// remaining schema byte budget, in which case SchemaOmitted is set instead.
func attachSchema(item *ResultItem, meta *capabilityMeta, budget int, used *int) {
	if meta.inputSchema == nil {
		return
	}
	size := estimateSchemaBytes(meta.inputSchema)
	if *used+size > budget {
		item.SchemaOmitted = true
		return
	}
	item.InputSchema = meta.inputSchema
	*used += size
}

// estimateSchemaBytes approximates serialized size without marshaling,
// since the exact encoding is irrelevant to a budget check.
func estimateSchemaBytes(schema map[string]any) int {
	total := 2 // braces
	for k, v := range schema {
		total += len(k) + 4
		total += estimateValueBytes(v)
	}
	return total
}

func estimateValueBytes(v any) int {
	switch t := v.(type) {
	case string:
		return len(t) + 2
	case map[string]any:
		return estimateSchemaBytes(t)
	case []any:
		total := 2
		for _, e := range t {
			total += estimateValueBytes(e) + 1
		}
		return total
	default:
		return 8
	}
}

// connectableServers returns the display name of every external server
// currently in {connected, degraded}, keyed by server id. Search relies on
// the registry rather than the aggregator directly: C8 already writes every
// transition through SetExternalServerStatus, so the registry is the
// up-to-date source of truth without coupling search to live connections.
func (s *service) connectableServers(ctx context.Context, orgID string) (map[string]string, error) {
	servers, err := s.reg.ListExternalServers(ctx, registry.ListFilter{OrgID: orgID, IncludeGlobal: true})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(servers))
	for _, srv := range servers {
		if srv.Status == registry.ServerConnected || srv.Status == registry.ServerDegraded {
			out[srv.ID] = srv.DisplayName
		}
	}
	return out, nil
}
