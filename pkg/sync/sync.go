// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package sync reconciles the capability registry with the vector index:
// on every capability add or update it drives the state machine
// new -> classifying -> embedding -> indexed (terminal failed on error).
// Sweep re-syncs active tools whose classification has not succeeded when
// it is called; it does not select capabilities in the failed state, and
// this package does not run it on a schedule.
package sync

//go:generate mockgen -destination=mocks/mock_sync.go -package=mocks -source=sync.go Service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/stacklok/toolhive-gateway/pkg/classifier"
	"github.com/stacklok/toolhive-gateway/pkg/embedding"
	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/logger"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	"github.com/stacklok/toolhive-gateway/pkg/skills"
	"github.com/stacklok/toolhive-gateway/pkg/vectorindex"
)

// DefaultQueueDepth bounds how many SyncBatch items may be in flight at
// once (running and waiting for a concurrency slot together) before the
// batch fails fast.
const DefaultQueueDepth = 100

// Kind names which registry table a CapabilityRef's ID lives in.
type Kind string

const (
	KindTool     Kind = "tool"
	KindPrompt   Kind = "prompt"
	KindResource Kind = "resource"
)

// CapabilityRef identifies a single capability to synchronize.
type CapabilityRef struct {
	ID   string
	Kind Kind
}

// Invalidator drops cached embeddings once a sync run completes; satisfied
// by *embedding.CachingClient.
type Invalidator interface {
	Invalidate()
}

// Service is the application-facing API for C5.
type Service interface {
	// SyncCapability drives ref through the state machine: classify, embed,
	// upsert the vector, recompute affected skill centroids, mark indexed.
	// A classifier failure is absorbed: the capability is marked
	// unclassified and is still embedded and indexed. An embedding failure
	// marks the capability failed and returns the error; the capability is
	// retained in the registry but is missing from the vector index until
	// the next successful sync.
	SyncCapability(ctx context.Context, ref CapabilityRef) error
	// SyncBatch synchronizes many capabilities concurrently, bounded by the
	// configured concurrency cap, and invalidates the embedding cache once
	// the whole batch completes.
	SyncBatch(ctx context.Context, refs []CapabilityRef) error
	// DeleteCapability reverses SyncCapability: vector first, then
	// assignments, then (by the caller, via Registry) the row itself.
	DeleteCapability(ctx context.Context, ref CapabilityRef) error
	// Sweep re-syncs every active, globally visible tool that is not yet
	// classified. Capabilities in the failed state after a successful
	// classification, prompts and resources are not selected.
	Sweep(ctx context.Context) error
}

type service struct {
	reg         registry.Registry
	classifier  classifier.Classifier
	embedder    embedding.Client
	index       vectorindex.Index
	invalidator Invalidator
	concurrency int64
	queueDepth  int64
	queued      atomic.Int64
}

// New builds the default Service. concurrency <= 0 defaults to 5;
// queueDepth <= 0 defaults to DefaultQueueDepth.
func New(reg registry.Registry, clf classifier.Classifier, embedder embedding.Client, index vectorindex.Index, invalidator Invalidator, concurrency, queueDepth int) Service {
	if concurrency <= 0 {
		concurrency = 5
	}
	if queueDepth <= 0 {
		queueDepth = DefaultQueueDepth
	}
	return &service{
		reg: reg, classifier: clf, embedder: embedder, index: index,
		invalidator: invalidator, concurrency: int64(concurrency), queueDepth: int64(queueDepth),
	}
}

// capabilityText is the name/description/schema triple every capability
// kind reduces to for classification and embedding.
type capabilityText struct {
	id          string
	orgID       string
	isGlobal    bool
	name        string
	description string
	schema      map[string]any
}

func (s *service) load(ctx context.Context, ref CapabilityRef) (capabilityText, error) {
	switch ref.Kind {
	case KindTool:
		t, err := s.reg.GetTool(ctx, ref.ID)
		if err != nil {
			return capabilityText{}, err
		}
		return capabilityText{id: t.ID, orgID: t.Visibility.OrgID, isGlobal: t.Visibility.IsGlobal,
			name: t.Name, description: t.Description, schema: t.InputSchema}, nil
	case KindPrompt:
		p, err := s.reg.GetPrompt(ctx, ref.ID)
		if err != nil {
			return capabilityText{}, err
		}
		return capabilityText{id: p.ID, orgID: p.Visibility.OrgID, isGlobal: p.Visibility.IsGlobal,
			name: p.Name, description: p.Description}, nil
	case KindResource:
		r, err := s.reg.GetResource(ctx, ref.ID)
		if err != nil {
			return capabilityText{}, err
		}
		return capabilityText{id: r.ID, orgID: r.Visibility.OrgID, isGlobal: r.Visibility.IsGlobal,
			name: r.Name, description: r.Description}, nil
	default:
		return capabilityText{}, fmt.Errorf("sync: unknown capability kind %q", ref.Kind)
	}
}

func (s *service) SyncCapability(ctx context.Context, ref CapabilityRef) error {
	ct, err := s.load(ctx, ref)
	if err != nil {
		return fmt.Errorf("sync: load capability %s: %w", ref.ID, err)
	}

	if err := s.classify(ctx, ref, ct); err != nil {
		_ = s.reg.SetCapabilityState(ctx, ref.ID, registry.StateFailed)
		return err
	}

	if err := s.embed(ctx, ref, ct); err != nil {
		_ = s.reg.SetCapabilityState(ctx, ref.ID, registry.StateFailed)
		return err
	}

	return s.reg.SetCapabilityState(ctx, ref.ID, registry.StateIndexed)
}

func (s *service) classify(ctx context.Context, ref CapabilityRef, ct capabilityText) error {
	if err := s.reg.SetCapabilityState(ctx, ref.ID, registry.StateClassifying); err != nil {
		return fmt.Errorf("sync: mark classifying: %w", err)
	}

	catalog, err := s.reg.ListSkillCategories(ctx, false)
	if err != nil {
		return fmt.Errorf("sync: load skill catalog: %w", err)
	}

	result, err := s.classifier.Classify(ctx, classifier.CapabilityInput{
		ID: ct.id, Name: ct.name, Description: ct.description, Schema: ct.schema,
	}, catalog)
	if err != nil {
		// Classifier errors are absorbed per the propagation policy: the
		// capability keeps its prior assignments (or none) and stays
		// reachable via direct search, marked unclassified rather than
		// failing the whole sync run.
		logger.Warnw("classification failed, marking capability unclassified", "capability_id", ct.id, "error", err)
		return s.reg.MarkClassified(ctx, ct.id, false)
	}

	assignments := toAssignments(ref.ID, result.Assignments)
	if err := s.reg.ReplaceAssignments(ctx, ref.ID, assignments); err != nil {
		return fmt.Errorf("sync: persist assignments: %w", err)
	}
	if err := s.reg.MarkClassified(ctx, ct.id, true); err != nil {
		return fmt.Errorf("sync: mark classified: %w", err)
	}

	if result.Suggestion != nil {
		exists, err := s.reg.SkillCategoryExists(ctx, result.Suggestion.ProposedID)
		if err == nil && !exists {
			_, _ = s.reg.CreateSuggestion(ctx, skills.Suggestion{
				ProposedID: result.Suggestion.ProposedID, ProposedName: result.Suggestion.ProposedName,
				Rationale: result.Suggestion.Rationale, SourceToolID: ref.ID,
			})
		}
	}
	return nil
}

func toAssignments(toolID string, in []skills.SetAssignmentInput) []skills.Assignment {
	primarySkillID, hasPrimary := skills.ResolvePrimary(in)
	out := make([]skills.Assignment, 0, len(in))
	for _, a := range in {
		out = append(out, skills.Assignment{
			ToolID: toolID, SkillID: a.SkillID, Confidence: a.Confidence,
			Primary: hasPrimary && a.SkillID == primarySkillID,
		})
	}
	return out
}

func (s *service) embed(ctx context.Context, ref CapabilityRef, ct capabilityText) error {
	if err := s.reg.SetCapabilityState(ctx, ref.ID, registry.StateEmbedding); err != nil {
		return fmt.Errorf("sync: mark embedding: %w", err)
	}

	text := embeddingText(ct)
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("sync: embed capability %s: %w", ref.ID, err)
	}

	assignments, err := s.reg.AssignmentsForTool(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("sync: load assignments for embedding payload: %w", err)
	}
	skillIDs := make([]string, 0, len(assignments))
	primarySkillID := skills.UncategorizedID
	for _, a := range assignments {
		skillIDs = append(skillIDs, a.SkillID)
		if a.Primary {
			primarySkillID = a.SkillID
		}
	}

	entry := vectorindex.Entry{
		ID: ref.ID, Embedding: vec, CapabilityID: ref.ID, Kind: string(ref.Kind),
		SkillIDs: skillIDs, PrimarySkillID: primarySkillID, OrgID: ct.orgID, IsGlobal: ct.isGlobal,
		TextUsedForEmbedding: text, UpdatedAt: time.Now(),
	}
	if err := s.index.Upsert(ctx, vectorindex.CollectionTools, entry); err != nil {
		return fmt.Errorf("sync: upsert tool vector: %w", err)
	}

	for _, skillID := range skillIDs {
		if err := s.recomputeSkillCentroid(ctx, skillID); err != nil {
			// Centroid recompute is best-effort relative to the
			// capability's own indexing; a stale centroid self-heals on
			// the next capability change for that skill.
			logger.Warnw("skill centroid recompute failed", "skill_id", skillID, "error", err)
		}
	}
	return nil
}

// embeddingText implements the embedding-input rule:
// "{name} : {description}" plus a schema summary when present.
func embeddingText(ct capabilityText) string {
	var b strings.Builder
	b.WriteString(ct.name)
	b.WriteString(" : ")
	b.WriteString(ct.description)
	if len(ct.schema) > 0 {
		for key := range ct.schema {
			b.WriteString(" ")
			b.WriteString(key)
		}
	}
	return b.String()
}

func (s *service) recomputeSkillCentroid(ctx context.Context, skillID string) error {
	centroid, count, err := s.index.Centroid(ctx, skillID)
	if err != nil {
		return fmt.Errorf("sync: compute centroid for skill %s: %w", skillID, err)
	}
	if count == 0 {
		return nil
	}

	return s.index.Upsert(ctx, vectorindex.CollectionSkills, vectorindex.Entry{
		ID: skillID, Embedding: centroid, CapabilityID: skillID, Kind: "skill",
		SkillIDs: []string{skillID}, PrimarySkillID: skillID, IsGlobal: true,
		ToolCount: count, UpdatedAt: time.Now(),
	})
}

// SyncBatch admits up to queueDepth unfinished items, counting both those
// running under the concurrency cap and those waiting for a slot; once that
// hard cap is exceeded it fails fast with Overloaded
// instead of letting the caller block indefinitely.
func (s *service) SyncBatch(ctx context.Context, refs []CapabilityRef) error {
	sem := semaphore.NewWeighted(s.concurrency)
	g, gctx := errgroup.WithContext(ctx)

	for _, ref := range refs {
		ref := ref

		if s.queued.Add(1) > s.queueDepth {
			s.queued.Add(-1)
			_ = g.Wait()
			if s.invalidator != nil {
				s.invalidator.Invalidate()
			}
			return gwerrors.NewOverloadedError(
				fmt.Sprintf("sync: queue depth %d exceeded", s.queueDepth), nil)
		}

		if err := sem.Acquire(gctx, 1); err != nil {
			s.queued.Add(-1)
			return fmt.Errorf("sync: acquire concurrency slot: %w", err)
		}
		g.Go(func() error {
			defer sem.Release(1)
			defer s.queued.Add(-1)
			return s.SyncCapability(gctx, ref)
		})
	}

	err := g.Wait()
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
	return err
}

func (s *service) DeleteCapability(ctx context.Context, ref CapabilityRef) error {
	if err := s.index.Delete(ctx, vectorindex.CollectionTools, ref.ID); err != nil {
		return fmt.Errorf("sync: delete vector for %s: %w", ref.ID, err)
	}
	if err := s.reg.ReplaceAssignments(ctx, ref.ID, nil); err != nil {
		return fmt.Errorf("sync: clear assignments for %s: %w", ref.ID, err)
	}
	return nil
}

func (s *service) Sweep(ctx context.Context) error {
	tools, err := s.reg.ListTools(ctx, registry.ListFilter{IncludeInactive: false})
	if err != nil {
		return fmt.Errorf("sync: sweep list tools: %w", err)
	}
	var refs []CapabilityRef
	for _, t := range tools {
		if !t.Classified {
			refs = append(refs, CapabilityRef{ID: t.ID, Kind: KindTool})
		}
	}
	if len(refs) == 0 {
		return nil
	}
	return s.SyncBatch(ctx, refs)
}
