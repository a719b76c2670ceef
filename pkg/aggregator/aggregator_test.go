// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	regmocks "github.com/stacklok/toolhive-gateway/pkg/registry/mocks"
	syncsvc "github.com/stacklok/toolhive-gateway/pkg/sync"
	syncmocks "github.com/stacklok/toolhive-gateway/pkg/sync/mocks"
	"github.com/stacklok/toolhive-gateway/pkg/transport"
	transportmocks "github.com/stacklok/toolhive-gateway/pkg/transport/mocks"
)

type fixture struct {
	reg     *regmocks.MockRegistry
	sync    *syncmocks.MockService
	session *transportmocks.MockSession
	agg     *aggregator
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		reg:     regmocks.NewMockRegistry(ctrl),
		sync:    syncmocks.NewMockService(ctrl),
		session: transportmocks.NewMockSession(ctrl),
	}
	factory := func(registry.ExternalServer) (transport.Session, error) { return f.session, nil }
	f.agg = New(f.reg, f.sync, factory, 0, nil).(*aggregator)
	return f
}

func sampleServer() registry.ExternalServer {
	return registry.ExternalServer{
		ID: "srv_1", DisplayName: "weather", Transport: registry.TransportHTTP,
		URL: "https://weather.example/mcp", Status: registry.ServerPending,
		Visibility: registry.Visibility{IsGlobal: true},
	}
}

func TestConnect_ImportsCatalogAndMarksConnected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	srv := sampleServer()

	f.reg.EXPECT().GetExternalServer(ctx, "srv_1").Return(&srv, nil)
	f.session.EXPECT().Start(ctx).Return(nil)
	f.session.EXPECT().ListTools(ctx).Return([]transport.ToolDescriptor{
		{Name: "forecast", Description: "get a forecast", InputSchema: map[string]any{"type": "object"}},
	}, nil)
	f.session.EXPECT().ListPrompts(ctx).Return(nil, nil)
	f.session.EXPECT().ListResources(ctx).Return(nil, nil)

	empty := registry.ListFilter{OrgID: "", IncludeGlobal: true, IncludeInactive: true}
	f.reg.EXPECT().ListTools(ctx, empty).Return(nil, nil)
	f.reg.EXPECT().ListPrompts(ctx, empty).Return(nil, nil)
	f.reg.EXPECT().ListResources(ctx, empty).Return(nil, nil)

	f.reg.EXPECT().CreateTool(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, in registry.CreateToolInput) (*registry.Tool, error) {
			assert.Equal(t, "weather.forecast", in.Name)
			assert.Equal(t, "forecast", in.OriginalName)
			assert.Equal(t, registry.OriginExternal, in.Origin)
			return &registry.Tool{Capability: registry.Capability{ID: "tool_1", Name: in.Name}}, nil
		})
	f.sync.EXPECT().SyncBatch(ctx, []syncsvc.CapabilityRef{{ID: "tool_1", Kind: syncsvc.KindTool}}).Return(nil)

	f.session.EXPECT().OnClose(gomock.Any())
	f.session.EXPECT().OnNotification(gomock.Any())
	f.reg.EXPECT().SetExternalServerStatus(ctx, "srv_1", registry.ServerConnected, 0).Return(nil)

	err := f.agg.Connect(ctx, "srv_1")
	require.NoError(t, err)

	f.agg.mu.RLock()
	_, ok := f.agg.sessions["srv_1"]
	f.agg.mu.RUnlock()
	assert.True(t, ok)
}

func TestConnect_ListToolsFailureMarksError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	srv := sampleServer()

	f.reg.EXPECT().GetExternalServer(ctx, "srv_1").Return(&srv, nil)
	f.session.EXPECT().Start(ctx).Return(nil)
	f.session.EXPECT().ListTools(ctx).Return(nil, errors.New("boom"))
	f.session.EXPECT().Close().Return(nil)
	f.reg.EXPECT().SetExternalServerStatus(ctx, "srv_1", registry.ServerError, 1).Return(nil)

	err := f.agg.Connect(ctx, "srv_1")
	assert.Error(t, err)
}

func TestConnect_RelaysBackendNotificationsThroughNotificationSink(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	reg := regmocks.NewMockRegistry(ctrl)
	sync := syncmocks.NewMockService(ctrl)
	session := transportmocks.NewMockSession(ctrl)

	type relayed struct {
		orgID, stage, message string
	}
	var got relayed
	sink := func(orgID, stage, message string) { got = relayed{orgID, stage, message} }

	factory := func(registry.ExternalServer) (transport.Session, error) { return session, nil }
	agg := New(reg, sync, factory, 0, sink).(*aggregator)

	ctx := context.Background()
	srv := sampleServer()
	srv.Visibility = registry.Visibility{OrgID: "org_1"}

	reg.EXPECT().GetExternalServer(ctx, "srv_1").Return(&srv, nil)
	session.EXPECT().Start(ctx).Return(nil)
	session.EXPECT().ListTools(ctx).Return(nil, nil)
	session.EXPECT().ListPrompts(ctx).Return(nil, nil)
	session.EXPECT().ListResources(ctx).Return(nil, nil)

	empty := registry.ListFilter{OrgID: "org_1", IncludeGlobal: true, IncludeInactive: true}
	reg.EXPECT().ListTools(ctx, empty).Return(nil, nil)
	reg.EXPECT().ListPrompts(ctx, empty).Return(nil, nil)
	reg.EXPECT().ListResources(ctx, empty).Return(nil, nil)

	session.EXPECT().OnClose(gomock.Any())
	var captured transport.NotificationHandler
	session.EXPECT().OnNotification(gomock.Any()).Do(func(h transport.NotificationHandler) { captured = h })
	reg.EXPECT().SetExternalServerStatus(ctx, "srv_1", registry.ServerConnected, 0).Return(nil)

	require.NoError(t, agg.Connect(ctx, "srv_1"))
	require.NotNil(t, captured)

	captured("notifications/progress", map[string]any{"percent": 50})
	assert.Equal(t, "org_1", got.orgID)
	assert.Equal(t, "backend:srv_1", got.stage)
	assert.Contains(t, got.message, "notifications/progress")
}

func TestCall_RejectsInternalTool(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.reg.EXPECT().ListTools(ctx, registry.ListFilter{OrgID: "org_1", IncludeGlobal: true}).Return([]registry.Tool{
		{Capability: registry.Capability{ID: "tool_1", Name: "builtin.search", Origin: registry.OriginInternal}},
	}, nil)

	_, err := f.agg.Call(ctx, "org_1", "builtin.search", nil)
	assert.Error(t, err)
}

func TestCall_RejectsWhenServerNotConnectedOrDegraded(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.reg.EXPECT().ListTools(ctx, registry.ListFilter{OrgID: "org_1", IncludeGlobal: true}).Return([]registry.Tool{
		{Capability: registry.Capability{ID: "tool_1", Name: "weather.forecast", Origin: registry.OriginExternal, ServerID: "srv_1"}, OriginalName: "forecast"},
	}, nil)
	f.reg.EXPECT().GetExternalServer(ctx, "srv_1").Return(&registry.ExternalServer{ID: "srv_1", Status: registry.ServerDisconnected}, nil)

	_, err := f.agg.Call(ctx, "org_1", "weather.forecast", nil)
	assert.Error(t, err)
}

func TestCall_ForwardsToOwningSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.reg.EXPECT().ListTools(ctx, registry.ListFilter{OrgID: "org_1", IncludeGlobal: true}).Return([]registry.Tool{
		{Capability: registry.Capability{ID: "tool_1", Name: "weather.forecast", Origin: registry.OriginExternal, ServerID: "srv_1"}, OriginalName: "forecast"},
	}, nil)
	f.reg.EXPECT().GetExternalServer(ctx, "srv_1").Return(&registry.ExternalServer{ID: "srv_1", Status: registry.ServerConnected}, nil)

	f.agg.mu.Lock()
	f.agg.sessions["srv_1"] = &conn{session: f.session}
	f.agg.mu.Unlock()

	f.session.EXPECT().CallTool(ctx, "forecast", map[string]any{"city": "nyc"}).
		Return(&transport.CallResult{Content: "sunny"}, nil)

	result, err := f.agg.Call(ctx, "org_1", "weather.forecast", map[string]any{"city": "nyc"})
	require.NoError(t, err)
	assert.Equal(t, "sunny", result.Content)
}

func TestCall_ReturnsRequestCancelledImmediatelyOnContextCancellation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.reg.EXPECT().ListTools(ctx, registry.ListFilter{OrgID: "org_1", IncludeGlobal: true}).Return([]registry.Tool{
		{Capability: registry.Capability{ID: "tool_1", Name: "weather.forecast", Origin: registry.OriginExternal, ServerID: "srv_1"}, OriginalName: "forecast"},
	}, nil)
	f.reg.EXPECT().GetExternalServer(ctx, "srv_1").Return(&registry.ExternalServer{ID: "srv_1", Status: registry.ServerConnected}, nil)

	f.agg.mu.Lock()
	f.agg.sessions["srv_1"] = &conn{session: f.session}
	f.agg.mu.Unlock()

	started := make(chan struct{})
	f.session.EXPECT().CallTool(gomock.Any(), "forecast", gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ map[string]any) (*transport.CallResult, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	callCtx, cancel := context.WithCancel(ctx)
	go func() {
		<-started
		cancel()
	}()

	_, err := f.agg.Call(callCtx, "org_1", "weather.forecast", nil)
	require.Error(t, err)
	assert.Equal(t, gwerrors.ErrRequestCancelled, gwerrors.Type(err))
}

func TestDisconnect_RemovesSessionAndClosesIt(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.agg.mu.Lock()
	f.agg.sessions["srv_1"] = &conn{session: f.session}
	f.agg.mu.Unlock()

	f.session.EXPECT().Close().Return(nil)
	f.reg.EXPECT().SetExternalServerStatus(ctx, "srv_1", registry.ServerDisconnected, 0).Return(nil)

	err := f.agg.Disconnect(ctx, "srv_1")
	require.NoError(t, err)

	f.agg.mu.RLock()
	_, ok := f.agg.sessions["srv_1"]
	f.agg.mu.RUnlock()
	assert.False(t, ok)
}

func TestDisconnect_UnknownServerIsNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	err := f.agg.Disconnect(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRemove_CascadesOwnedCapabilitiesThenDeletesServer(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	srv := sampleServer()
	filter := registry.ListFilter{OrgID: "", IncludeGlobal: true, IncludeInactive: true}

	f.reg.EXPECT().GetExternalServer(ctx, "srv_1").Return(&srv, nil)
	f.reg.EXPECT().ListTools(ctx, filter).Return([]registry.Tool{
		{Capability: registry.Capability{ID: "tool_1", ServerID: "srv_1"}},
		{Capability: registry.Capability{ID: "tool_2", ServerID: "srv_other"}},
	}, nil)
	f.reg.EXPECT().ListPrompts(ctx, filter).Return(nil, nil)
	f.reg.EXPECT().ListResources(ctx, filter).Return(nil, nil)
	f.sync.EXPECT().DeleteCapability(ctx, syncsvc.CapabilityRef{ID: "tool_1", Kind: syncsvc.KindTool}).Return(nil)
	f.reg.EXPECT().DeleteExternalServer(ctx, "srv_1").Return(nil)

	err := f.agg.Remove(ctx, "srv_1")
	require.NoError(t, err)
}

func TestProbeOne_HTTPFailureMarksDegraded(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	srv := registry.ExternalServer{ID: "srv_1", Transport: registry.TransportHTTP, URL: "http://127.0.0.1:0/unreachable"}

	f.reg.EXPECT().GetExternalServer(ctx, "srv_1").Return(&srv, nil)
	f.reg.EXPECT().SetExternalServerStatus(ctx, "srv_1", registry.ServerDegraded, 1).Return(nil)

	f.agg.probeOne(ctx, "srv_1")
}
