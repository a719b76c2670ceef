// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-gateway/pkg/classifier"
	clfmocks "github.com/stacklok/toolhive-gateway/pkg/classifier/mocks"
	embmocks "github.com/stacklok/toolhive-gateway/pkg/embedding/mocks"
	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	regmocks "github.com/stacklok/toolhive-gateway/pkg/registry/mocks"
	"github.com/stacklok/toolhive-gateway/pkg/skills"
	"github.com/stacklok/toolhive-gateway/pkg/vectorindex"
	vecmocks "github.com/stacklok/toolhive-gateway/pkg/vectorindex/mocks"
)

type fixture struct {
	reg *regmocks.MockRegistry
	clf *clfmocks.MockClassifier
	emb *embmocks.MockClient
	idx *vecmocks.MockIndex
	svc Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		reg: regmocks.NewMockRegistry(ctrl),
		clf: clfmocks.NewMockClassifier(ctrl),
		emb: embmocks.NewMockClient(ctrl),
		idx: vecmocks.NewMockIndex(ctrl),
	}
	f.svc = New(f.reg, f.clf, f.emb, f.idx, nil, 2, 100)
	return f
}

func sampleTool() *registry.Tool {
	return &registry.Tool{
		Capability: registry.Capability{ID: "tool_1", Name: "restart-db", Description: "restarts a database",
			Visibility: registry.Visibility{IsGlobal: true}},
	}
}

func TestSyncCapability_HappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tool := sampleTool()

	f.reg.EXPECT().GetTool(ctx, "tool_1").Return(tool, nil)
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateClassifying).Return(nil)
	f.reg.EXPECT().ListSkillCategories(ctx, false).Return([]skills.Category{{ID: "databases", Active: true}}, nil)
	f.clf.EXPECT().Classify(ctx, gomock.Any(), gomock.Any()).Return(classifier.Result{
		Assignments: []skills.SetAssignmentInput{{SkillID: "databases", Confidence: 0.9}},
	}, nil)
	f.reg.EXPECT().ReplaceAssignments(ctx, "tool_1", gomock.Any()).Return(nil)
	f.reg.EXPECT().MarkClassified(ctx, "tool_1", true).Return(nil)

	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateEmbedding).Return(nil)
	f.emb.EXPECT().Embed(ctx, gomock.Any()).Return([]float32{0.1, 0.2}, nil)
	f.reg.EXPECT().AssignmentsForTool(ctx, "tool_1").Return([]skills.Assignment{
		{ToolID: "tool_1", SkillID: "databases", Confidence: 0.9, Primary: true},
	}, nil)
	f.idx.EXPECT().Upsert(ctx, vectorindex.CollectionTools, gomock.Any()).Return(nil)
	f.idx.EXPECT().Centroid(ctx, "databases").Return([]float32{0.1, 0.2}, 1, nil)
	f.idx.EXPECT().Upsert(ctx, vectorindex.CollectionSkills, gomock.Any()).Return(nil)

	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateIndexed).Return(nil)

	require.NoError(t, f.svc.SyncCapability(ctx, CapabilityRef{ID: "tool_1", Kind: KindTool}))
}

func TestSyncCapability_ClassifierFailureAbsorbedThenEmbeds(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tool := sampleTool()

	f.reg.EXPECT().GetTool(ctx, "tool_1").Return(tool, nil)
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateClassifying).Return(nil)
	f.reg.EXPECT().ListSkillCategories(ctx, false).Return(nil, nil)
	f.clf.EXPECT().Classify(ctx, gomock.Any(), gomock.Any()).Return(classifier.Result{}, errors.New("model unavailable"))
	f.reg.EXPECT().MarkClassified(ctx, "tool_1", false).Return(nil)

	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateEmbedding).Return(nil)
	f.emb.EXPECT().Embed(ctx, gomock.Any()).Return([]float32{0.1}, nil)
	f.reg.EXPECT().AssignmentsForTool(ctx, "tool_1").Return(nil, nil)
	f.idx.EXPECT().Upsert(ctx, vectorindex.CollectionTools, gomock.Any()).Return(nil)
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateIndexed).Return(nil)

	require.NoError(t, f.svc.SyncCapability(ctx, CapabilityRef{ID: "tool_1", Kind: KindTool}))
}

func TestSyncCapability_EmbedFailureMarksFailed(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tool := sampleTool()

	f.reg.EXPECT().GetTool(ctx, "tool_1").Return(tool, nil)
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateClassifying).Return(nil)
	f.reg.EXPECT().ListSkillCategories(ctx, false).Return(nil, nil)
	f.clf.EXPECT().Classify(ctx, gomock.Any(), gomock.Any()).Return(classifier.Result{
		Assignments: []skills.SetAssignmentInput{{SkillID: skills.UncategorizedID, Confidence: 1}},
	}, nil)
	f.reg.EXPECT().ReplaceAssignments(ctx, "tool_1", gomock.Any()).Return(nil)
	f.reg.EXPECT().MarkClassified(ctx, "tool_1", true).Return(nil)

	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateEmbedding).Return(nil)
	f.emb.EXPECT().Embed(ctx, gomock.Any()).Return(nil, errors.New("embedding backend down"))
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateFailed).Return(nil)

	err := f.svc.SyncCapability(ctx, CapabilityRef{ID: "tool_1", Kind: KindTool})
	require.Error(t, err)
}

func TestSyncCapability_EmitsSuggestionWhenProposedIDUnknown(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tool := sampleTool()

	f.reg.EXPECT().GetTool(ctx, "tool_1").Return(tool, nil)
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateClassifying).Return(nil)
	f.reg.EXPECT().ListSkillCategories(ctx, false).Return(nil, nil)
	f.clf.EXPECT().Classify(ctx, gomock.Any(), gomock.Any()).Return(classifier.Result{
		Assignments: []skills.SetAssignmentInput{{SkillID: skills.UncategorizedID, Confidence: 1}},
		Suggestion:  &classifier.Suggestion{ProposedID: "paging", ProposedName: "Paging", Rationale: "no fit"},
	}, nil)
	f.reg.EXPECT().ReplaceAssignments(ctx, "tool_1", gomock.Any()).Return(nil)
	f.reg.EXPECT().MarkClassified(ctx, "tool_1", true).Return(nil)
	f.reg.EXPECT().SkillCategoryExists(ctx, "paging").Return(false, nil)
	f.reg.EXPECT().CreateSuggestion(ctx, gomock.Any()).Return(&skills.Suggestion{ID: "s1"}, nil)

	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateEmbedding).Return(nil)
	f.emb.EXPECT().Embed(ctx, gomock.Any()).Return([]float32{0.1}, nil)
	f.reg.EXPECT().AssignmentsForTool(ctx, "tool_1").Return(nil, nil)
	f.idx.EXPECT().Upsert(ctx, vectorindex.CollectionTools, gomock.Any()).Return(nil)
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateIndexed).Return(nil)

	require.NoError(t, f.svc.SyncCapability(ctx, CapabilityRef{ID: "tool_1", Kind: KindTool}))
}

func TestDeleteCapability_ClearsVectorThenAssignments(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.idx.EXPECT().Delete(ctx, vectorindex.CollectionTools, "tool_1").Return(nil)
	f.reg.EXPECT().ReplaceAssignments(ctx, "tool_1", nil).Return(nil)

	require.NoError(t, f.svc.DeleteCapability(ctx, CapabilityRef{ID: "tool_1", Kind: KindTool}))
}

func TestSweep_OnlyResyncsUnclassifiedTools(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.reg.EXPECT().ListTools(ctx, registry.ListFilter{IncludeInactive: false}).Return([]registry.Tool{
		{Capability: registry.Capability{ID: "tool_1", Classified: false}},
		{Capability: registry.Capability{ID: "tool_2", Classified: true}},
	}, nil)

	tool := sampleTool()
	tool.ID = "tool_1"
	f.reg.EXPECT().GetTool(ctx, "tool_1").Return(tool, nil)
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateClassifying).Return(nil)
	f.reg.EXPECT().ListSkillCategories(ctx, false).Return(nil, nil)
	f.clf.EXPECT().Classify(ctx, gomock.Any(), gomock.Any()).Return(classifier.Result{
		Assignments: []skills.SetAssignmentInput{{SkillID: skills.UncategorizedID, Confidence: 1}},
	}, nil)
	f.reg.EXPECT().ReplaceAssignments(ctx, "tool_1", gomock.Any()).Return(nil)
	f.reg.EXPECT().MarkClassified(ctx, "tool_1", true).Return(nil)
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateEmbedding).Return(nil)
	f.emb.EXPECT().Embed(ctx, gomock.Any()).Return([]float32{0.1}, nil)
	f.reg.EXPECT().AssignmentsForTool(ctx, "tool_1").Return(nil, nil)
	f.idx.EXPECT().Upsert(ctx, vectorindex.CollectionTools, gomock.Any()).Return(nil)
	f.reg.EXPECT().SetCapabilityState(ctx, "tool_1", registry.StateIndexed).Return(nil)

	require.NoError(t, f.svc.Sweep(ctx))
}

func TestSyncBatch_FailsFastOnceQueueDepthExceeded(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	reg := regmocks.NewMockRegistry(ctrl)
	clf := clfmocks.NewMockClassifier(ctrl)
	emb := embmocks.NewMockClient(ctrl)
	idx := vecmocks.NewMockIndex(ctrl)

	// concurrency=1, queueDepth=1: tool_1 occupies the one running slot and
	// blocks there, so tool_2 must be rejected outright instead of queuing.
	svc := New(reg, clf, emb, idx, nil, 1, 1)

	block := make(chan struct{})
	reg.EXPECT().GetTool(gomock.Any(), "tool_1").DoAndReturn(
		func(context.Context, string) (*registry.Tool, error) {
			<-block
			return sampleTool(), nil
		})
	reg.EXPECT().SetCapabilityState(gomock.Any(), "tool_1", gomock.Any()).Return(nil).AnyTimes()
	reg.EXPECT().ListSkillCategories(gomock.Any(), false).Return(nil, nil).AnyTimes()
	clf.EXPECT().Classify(gomock.Any(), gomock.Any(), gomock.Any()).Return(classifier.Result{
		Assignments: []skills.SetAssignmentInput{{SkillID: skills.UncategorizedID, Confidence: 1}},
	}, nil).AnyTimes()
	reg.EXPECT().ReplaceAssignments(gomock.Any(), "tool_1", gomock.Any()).Return(nil).AnyTimes()
	reg.EXPECT().MarkClassified(gomock.Any(), "tool_1", true).Return(nil).AnyTimes()
	emb.EXPECT().Embed(gomock.Any(), gomock.Any()).Return([]float32{0.1}, nil).AnyTimes()
	reg.EXPECT().AssignmentsForTool(gomock.Any(), "tool_1").Return(nil, nil).AnyTimes()
	idx.EXPECT().Upsert(gomock.Any(), vectorindex.CollectionTools, gomock.Any()).Return(nil).AnyTimes()
	// No expectation for GetTool("tool_2"): if SyncBatch ever dispatched it,
	// this mock call would fail the test as unexpected.

	refs := []CapabilityRef{
		{ID: "tool_1", Kind: KindTool},
		{ID: "tool_2", Kind: KindTool},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- svc.SyncBatch(context.Background(), refs) }()

	// Give the batch loop time to admit tool_1 and reject tool_2 before
	// releasing tool_1 to let the batch unwind.
	time.Sleep(50 * time.Millisecond)
	close(block)

	select {
	case err := <-errCh:
		require.Error(t, err)
		require.Equal(t, gwerrors.ErrOverloaded, gwerrors.Type(err))
	case <-time.After(2 * time.Second):
		t.Fatal("SyncBatch did not return after queue depth was exceeded")
	}
}
