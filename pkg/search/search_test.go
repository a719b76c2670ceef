// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-gateway/pkg/registry"
	regmocks "github.com/stacklok/toolhive-gateway/pkg/registry/mocks"
	searchmocks "github.com/stacklok/toolhive-gateway/pkg/search/mocks"
	"github.com/stacklok/toolhive-gateway/pkg/vectorindex"
	vecmocks "github.com/stacklok/toolhive-gateway/pkg/vectorindex/mocks"
)

type fixture struct {
	emb *searchmocks.MockEmbedder
	idx *vecmocks.MockIndex
	reg *regmocks.MockRegistry
	svc Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		emb: searchmocks.NewMockEmbedder(ctrl),
		idx: vecmocks.NewMockIndex(ctrl),
		reg: regmocks.NewMockRegistry(ctrl),
	}
	f.svc = New(f.emb, f.idx, f.reg, 0)
	return f
}

func (f *fixture) expectNoConnectedServers() {
	f.reg.EXPECT().ListExternalServers(gomock.Any(), gomock.Any()).Return(nil, nil)
}

func internalTool(id, name, primarySkill string) *registry.Tool {
	return &registry.Tool{
		Capability: registry.Capability{ID: id, Name: name, Description: name + " description", Active: true, Origin: registry.OriginInternal},
	}
}

func TestSearch_HierarchicalHappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.emb.EXPECT().Embed(gomock.Any(), "restart the db").Return([]float32{0.1, 0.2}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionSkills, gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorindex.Match{{Entry: vectorindex.Entry{ID: "databases"}, Score: 0.8}}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionTools, gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorindex.Match{
			{Entry: vectorindex.Entry{CapabilityID: "tool_1", PrimarySkillID: "databases"}, Score: 0.9},
		}, nil)
	f.reg.EXPECT().GetTool(gomock.Any(), "tool_1").Return(internalTool("tool_1", "restart-db", "databases"), nil)
	f.expectNoConnectedServers()

	resp, err := f.svc.Search(ctx, Request{Query: "restart the db", ItemType: ItemTool, OrgID: "org_1"})
	require.NoError(t, err)
	assert.Equal(t, StrategyHierarchical, resp.Metadata.StrategyUsed)
	assert.Equal(t, []string{"databases"}, resp.Metadata.SkillIDsUsed)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "restart-db", resp.Items[0].NamespacedName)
	assert.Nil(t, resp.Items[0].Source)
}

func TestSearch_FallsBackToDirectWhenNoSkillsMatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionSkills, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil) // nothing clears the threshold
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionTools, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)
	f.expectNoConnectedServers()

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1"})
	require.NoError(t, err)
	assert.Equal(t, StrategyDirect, resp.Metadata.StrategyUsed)
	assert.Equal(t, "no_skills_matched", resp.Metadata.FallbackReason)
}

func TestSearch_StageAFailureFallsBackToDirect(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionSkills, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("skill index down"))
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionTools, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)
	f.expectNoConnectedServers()

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1"})
	require.NoError(t, err)
	assert.Equal(t, StrategyDirect, resp.Metadata.StrategyUsed)
	assert.Equal(t, "stage_a_failed", resp.Metadata.FallbackReason)
}

func TestSearch_SkillsOnlyDoesNotRunStageB(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionSkills, gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorindex.Match{{Entry: vectorindex.Entry{ID: "databases"}, Score: 0.7}}, nil)
	// no CollectionTools expectation: a call would fail the test via gomock's unexpected-call panic

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1", Strategy: StrategySkillsOnly})
	require.NoError(t, err)
	assert.Equal(t, StrategySkillsOnly, resp.Metadata.StrategyUsed)
	assert.Empty(t, resp.Items)
	require.Len(t, resp.Skills, 1)
	assert.Equal(t, "databases", resp.Skills[0].SkillID)
}

func TestSearch_SkillsOnlyFailurePropagatesAsSearchBackendError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionSkills, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("skill index down"))

	_, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1", Strategy: StrategySkillsOnly})
	require.Error(t, err)
}

func TestSearch_StageBFailureIsFatal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionTools, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("tool index down"))

	_, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1", Strategy: StrategyDirect})
	require.Error(t, err)
}

func TestSearch_EmbedTimeoutReturnsPartialInsteadOfError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.emb.EXPECT().Embed(gomock.Any(), "q").DoAndReturn(
		func(ctx context.Context, _ string) ([]float32, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1"})
	require.NoError(t, err)
	assert.True(t, resp.Metadata.Partial)
	assert.Equal(t, "embed_timed_out", resp.Metadata.FallbackReason)
	assert.Empty(t, resp.Items)
}

func TestSearch_StageATimeoutReturnsPartialInsteadOfError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionSkills, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ vectorindex.Collection, _ []float32, _ vectorindex.Filter, _ vectorindex.SearchOptions) ([]vectorindex.Match, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1"})
	require.NoError(t, err)
	assert.True(t, resp.Metadata.Partial)
	assert.Equal(t, "stage_a_timed_out", resp.Metadata.FallbackReason)
	assert.Empty(t, resp.Items)
}

func TestSearch_StageBTimeoutReturnsPartialInsteadOfError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionTools, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ vectorindex.Collection, _ []float32, _ vectorindex.Filter, _ vectorindex.SearchOptions) ([]vectorindex.Match, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1", Strategy: StrategyDirect})
	require.NoError(t, err)
	assert.True(t, resp.Metadata.Partial)
	assert.Equal(t, "stage_b_timed_out", resp.Metadata.FallbackReason)
	assert.Empty(t, resp.Items)
}

func TestSearch_DropsToolOnDisconnectedServerAndBacksFillFromNextCandidate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	externalTool := &registry.Tool{
		Capability: registry.Capability{ID: "tool_ext", Name: "deploy", Active: true, Origin: registry.OriginExternal, ServerID: "srv_down"},
		OriginalName: "deploy_app",
	}
	backfillTool := internalTool("tool_2", "deploy-local", "")

	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionTools, gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorindex.Match{
			{Entry: vectorindex.Entry{CapabilityID: "tool_ext"}, Score: 0.95},
			{Entry: vectorindex.Entry{CapabilityID: "tool_2"}, Score: 0.5},
		}, nil)
	f.reg.EXPECT().GetTool(gomock.Any(), "tool_ext").Return(externalTool, nil)
	f.reg.EXPECT().GetTool(gomock.Any(), "tool_2").Return(backfillTool, nil)
	f.reg.EXPECT().ListExternalServers(gomock.Any(), gomock.Any()).Return([]registry.ExternalServer{
		{ID: "srv_down", DisplayName: "down-server", Status: registry.ServerDisconnected},
	}, nil)

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1", Strategy: StrategyDirect, Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "tool_2", resp.Items[0].ID)
}

func TestSearch_NamespacesExternalToolByServerDisplayName(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	externalTool := &registry.Tool{
		Capability:   registry.Capability{ID: "tool_ext", Name: "deploy", Active: true, Origin: registry.OriginExternal, ServerID: "srv_1"},
		OriginalName: "deploy_app",
	}
	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionTools, gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorindex.Match{{Entry: vectorindex.Entry{CapabilityID: "tool_ext"}, Score: 0.9}}, nil)
	f.reg.EXPECT().GetTool(gomock.Any(), "tool_ext").Return(externalTool, nil)
	f.reg.EXPECT().ListExternalServers(gomock.Any(), gomock.Any()).Return([]registry.ExternalServer{
		{ID: "srv_1", DisplayName: "ops", Status: registry.ServerConnected},
	}, nil)

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1", Strategy: StrategyDirect})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "ops.deploy_app", resp.Items[0].NamespacedName)
	require.NotNil(t, resp.Items[0].Source)
	assert.Equal(t, "srv_1", resp.Items[0].Source.ServerID)
}

func TestSearch_SchemaOmittedWhenBudgetExceeded(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	f.idx = vecmocks.NewMockIndex(ctrl)
	f.reg = regmocks.NewMockRegistry(ctrl)
	f.emb = searchmocks.NewMockEmbedder(ctrl)
	f.svc = New(f.emb, f.idx, f.reg, 10) // tiny budget, forces omission

	bigSchema := map[string]any{"properties": map[string]any{"x": "a very long description string that blows the tiny budget"}}
	tool := &registry.Tool{
		Capability: registry.Capability{ID: "tool_1", Name: "t", Active: true, Origin: registry.OriginInternal},
		InputSchema: bigSchema,
	}

	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionTools, gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorindex.Match{{Entry: vectorindex.Entry{CapabilityID: "tool_1"}, Score: 0.9}}, nil)
	f.reg.EXPECT().GetTool(gomock.Any(), "tool_1").Return(tool, nil)
	f.reg.EXPECT().ListExternalServers(gomock.Any(), gomock.Any()).Return(nil, nil)

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1", Strategy: StrategyDirect, IncludeSchemas: true})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].SchemaOmitted)
	assert.Nil(t, resp.Items[0].InputSchema)
}

func TestSearch_DeactivatedToolDroppedSilently(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	inactiveTool := &registry.Tool{Capability: registry.Capability{ID: "tool_1", Name: "old", Active: false, Origin: registry.OriginInternal}}
	f.emb.EXPECT().Embed(gomock.Any(), "q").Return([]float32{0.1}, nil)
	f.idx.EXPECT().Search(gomock.Any(), vectorindex.CollectionTools, gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorindex.Match{{Entry: vectorindex.Entry{CapabilityID: "tool_1"}, Score: 0.9}}, nil)
	f.reg.EXPECT().GetTool(gomock.Any(), "tool_1").Return(inactiveTool, nil)
	f.expectNoConnectedServers()

	resp, err := f.svc.Search(ctx, Request{Query: "q", ItemType: ItemTool, OrgID: "org_1", Strategy: StrategyDirect})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}
