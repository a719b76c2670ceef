// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package aggregator owns the live connections to external MCP servers: it
// connects and disconnects sessions, imports their tool/prompt/resource
// catalogs into the registry (triggering C5 sync for each), runs the
// health-probe loop that drives the connection state machine, and routes
// namespaced tool calls to the right session.
package aggregator

//go:generate mockgen -destination=mocks/mock_aggregator.go -package=mocks -source=aggregator.go Aggregator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
	"github.com/stacklok/toolhive-gateway/pkg/logger"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	syncsvc "github.com/stacklok/toolhive-gateway/pkg/sync"
	"github.com/stacklok/toolhive-gateway/pkg/transport"
	"github.com/stacklok/toolhive-gateway/pkg/transport/httpadapter"
	"github.com/stacklok/toolhive-gateway/pkg/transport/sseadapter"
	"github.com/stacklok/toolhive-gateway/pkg/transport/stdioadapter"
)

// DefaultProbeInterval is the default health-probe cadence.
const DefaultProbeInterval = 30 * time.Second

// disconnectGrace is how long Disconnect waits for in-flight calls to drain
// before closing the session out from under them.
const disconnectGrace = 30 * time.Second

// healthCheckTimeout bounds a single HTTP health probe.
const healthCheckTimeout = 5 * time.Second

// maxConsecutiveFailures is the probe-failure count at which a server's
// status escalates from degraded to error.
const maxConsecutiveFailures = 3

// SessionFactory builds a not-yet-started transport.Session for srv, chosen
// by its transport kind.
type SessionFactory func(srv registry.ExternalServer) (transport.Session, error)

// DefaultSessionFactory dispatches to the three adapters in pkg/transport by
// registry.ExternalServer.Transport.
func DefaultSessionFactory(srv registry.ExternalServer) (transport.Session, error) {
	switch srv.Transport {
	case registry.TransportStdio:
		return stdioadapter.New(srv.Command, srv.Args, nil), nil
	case registry.TransportHTTP:
		return httpadapter.New(srv.URL, srv.Headers), nil
	case registry.TransportSSE:
		return sseadapter.New(srv.URL, srv.Headers), nil
	default:
		return nil, fmt.Errorf("aggregator: unknown transport %q for server %q", srv.Transport, srv.ID)
	}
}

type conn struct {
	session transport.Session
	wg      sync.WaitGroup
}

// Aggregator owns every live
// external-server session and is the only path by which a namespaced
// external tool call reaches its owning server.
type Aggregator interface {
	Register(ctx context.Context, srv registry.ExternalServer) (*registry.ExternalServer, error)
	Connect(ctx context.Context, serverID string) error
	Disconnect(ctx context.Context, serverID string) error
	Reconnect(ctx context.Context, serverID string) error
	Remove(ctx context.Context, serverID string) error
	Call(ctx context.Context, orgID, fullyQualifiedName string, args map[string]any) (*transport.CallResult, error)
	RunHealthProbes(ctx context.Context)
	Close() error
}

// NotificationSink relays a backend notification to whatever downstream MCP
// clients are entitled to see it. orgID is empty for a notification that
// came from a global server, which a sink should broadcast to every
// connected client rather than drop. stage tags which part of the pipeline
// produced the notification, relayed onward as a "notifications/message"
// frame carrying a pipeline-stage tag.
type NotificationSink func(orgID, stage, message string)

type aggregator struct {
	reg     registry.Registry
	sync    syncsvc.Service
	newConn SessionFactory
	notify  NotificationSink

	probeInterval time.Duration
	httpClient    *http.Client

	mu       sync.RWMutex
	sessions map[string]*conn
	closed   chan struct{}
}

// New builds an Aggregator. probeInterval <= 0 defaults to
// DefaultProbeInterval. notify may be nil, in which case backend
// notifications are discarded rather than relayed to pkg/mcpserver.
func New(reg registry.Registry, syncSvc syncsvc.Service, newConn SessionFactory, probeInterval time.Duration, notify NotificationSink) Aggregator {
	if newConn == nil {
		newConn = DefaultSessionFactory
	}
	if probeInterval <= 0 {
		probeInterval = DefaultProbeInterval
	}
	return &aggregator{
		reg: reg, sync: syncSvc, newConn: newConn, notify: notify,
		probeInterval: probeInterval,
		httpClient:    &http.Client{Timeout: healthCheckTimeout},
		sessions:      make(map[string]*conn),
		closed:        make(chan struct{}),
	}
}

// Register persists srv (visibility-aware, via the registry) and attempts an
// initial connect. A failed initial connect does not fail registration: the
// health-probe loop's reconnect policy takes over from there.
func (a *aggregator) Register(ctx context.Context, srv registry.ExternalServer) (*registry.ExternalServer, error) {
	srv.Status = registry.ServerPending
	created, err := a.reg.CreateExternalServer(ctx, srv)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, created.ID); err != nil {
		logger.Warnw("initial connect after register failed, deferring to reconnect policy", "server_id", created.ID, "error", err)
		a.scheduleReconnect(created.ID)
	}
	return created, nil
}

// Connect selects an adapter by transport, starts a session, imports its
// catalog, and triggers sync for every newly-discovered capability.
func (a *aggregator) Connect(ctx context.Context, serverID string) error {
	srv, err := a.reg.GetExternalServer(ctx, serverID)
	if err != nil {
		return err
	}

	session, err := a.newConn(*srv)
	if err != nil {
		_ = a.reg.SetExternalServerStatus(ctx, serverID, registry.ServerError, srv.ConsecutiveFailures+1)
		return err
	}
	if err := session.Start(ctx); err != nil {
		_ = a.reg.SetExternalServerStatus(ctx, serverID, registry.ServerError, srv.ConsecutiveFailures+1)
		return fmt.Errorf("aggregator: start session for %q: %w", serverID, err)
	}

	tools, err := session.ListTools(ctx)
	if err != nil {
		_ = session.Close()
		_ = a.reg.SetExternalServerStatus(ctx, serverID, registry.ServerError, srv.ConsecutiveFailures+1)
		return fmt.Errorf("aggregator: list tools for %q: %w", serverID, err)
	}
	prompts, _ := session.ListPrompts(ctx)   // optional per the Session contract
	resources, _ := session.ListResources(ctx)

	if err := a.replaceDiscovered(ctx, *srv, tools, prompts, resources); err != nil {
		_ = session.Close()
		_ = a.reg.SetExternalServerStatus(ctx, serverID, registry.ServerError, srv.ConsecutiveFailures+1)
		return fmt.Errorf("aggregator: import catalog for %q: %w", serverID, err)
	}

	session.OnClose(func(reason error) { a.handleInvoluntaryClose(serverID, reason) })
	session.OnNotification(a.forwardNotification(serverID, srv.Visibility.OrgID))

	a.mu.Lock()
	a.sessions[serverID] = &conn{session: session}
	a.mu.Unlock()

	return a.reg.SetExternalServerStatus(ctx, serverID, registry.ServerConnected, 0)
}

// replaceDiscovered deletes every capability previously discovered on srv,
// then creates fresh ones from the current catalog and syncs them. Renaming
// a server this way rewrites every one of its tool names in the same pass.
func (a *aggregator) replaceDiscovered(ctx context.Context, srv registry.ExternalServer, tools []transport.ToolDescriptor, prompts []transport.PromptDescriptor, resources []transport.ResourceDescriptor) error {
	filter := registry.ListFilter{OrgID: srv.Visibility.OrgID, IncludeGlobal: true, IncludeInactive: true}

	existingTools, err := a.reg.ListTools(ctx, filter)
	if err != nil {
		return err
	}
	for _, t := range existingTools {
		if t.ServerID != srv.ID {
			continue
		}
		_ = a.sync.DeleteCapability(ctx, syncsvc.CapabilityRef{ID: t.ID, Kind: syncsvc.KindTool})
		if err := a.reg.DeleteTool(ctx, t.ID); err != nil {
			return err
		}
	}

	existingPrompts, err := a.reg.ListPrompts(ctx, filter)
	if err != nil {
		return err
	}
	for _, p := range existingPrompts {
		if p.ServerID != srv.ID {
			continue
		}
		_ = a.sync.DeleteCapability(ctx, syncsvc.CapabilityRef{ID: p.ID, Kind: syncsvc.KindPrompt})
		if err := a.reg.DeletePrompt(ctx, p.ID); err != nil {
			return err
		}
	}

	existingResources, err := a.reg.ListResources(ctx, filter)
	if err != nil {
		return err
	}
	for _, r := range existingResources {
		if r.ServerID != srv.ID {
			continue
		}
		_ = a.sync.DeleteCapability(ctx, syncsvc.CapabilityRef{ID: r.ID, Kind: syncsvc.KindResource})
		if err := a.reg.DeleteResource(ctx, r.ID); err != nil {
			return err
		}
	}

	var refs []syncsvc.CapabilityRef
	for _, td := range tools {
		created, err := a.reg.CreateTool(ctx, registry.CreateToolInput{
			Name: namespacedName(srv.DisplayName, td.Name), Description: td.Description,
			InputSchema: td.InputSchema, Visibility: srv.Visibility,
			Origin: registry.OriginExternal, ServerID: srv.ID, OriginalName: td.Name,
		})
		if err != nil {
			return err
		}
		refs = append(refs, syncsvc.CapabilityRef{ID: created.ID, Kind: syncsvc.KindTool})
	}
	for _, pd := range prompts {
		args := make([]registry.PromptArgument, 0, len(pd.Arguments))
		for _, pa := range pd.Arguments {
			args = append(args, registry.PromptArgument{Name: pa.Name, Description: pa.Description, Required: pa.Required})
		}
		created, err := a.reg.CreatePrompt(ctx, registry.CreatePromptInput{
			Name: namespacedName(srv.DisplayName, pd.Name), Description: pd.Description,
			Arguments: args, Visibility: srv.Visibility, Origin: registry.OriginExternal, ServerID: srv.ID,
		})
		if err != nil {
			return err
		}
		refs = append(refs, syncsvc.CapabilityRef{ID: created.ID, Kind: syncsvc.KindPrompt})
	}
	for _, rd := range resources {
		created, err := a.reg.CreateResource(ctx, registry.CreateResourceInput{
			Name: namespacedName(srv.DisplayName, rd.Name), Description: rd.Description,
			Scheme: resourceScheme(rd.URI), Visibility: srv.Visibility, Origin: registry.OriginExternal, ServerID: srv.ID,
		})
		if err != nil {
			return err
		}
		refs = append(refs, syncsvc.CapabilityRef{ID: created.ID, Kind: syncsvc.KindResource})
	}

	if len(refs) == 0 {
		return nil
	}
	return a.sync.SyncBatch(ctx, refs)
}

func namespacedName(serverDisplayName, originalName string) string {
	return fmt.Sprintf("%s.%s", serverDisplayName, originalName)
}

func resourceScheme(uri string) string {
	if idx := strings.Index(uri, "://"); idx > 0 {
		return uri[:idx+3]
	}
	return ""
}

// Disconnect closes serverID's session, waiting up to 30s for in-flight
// calls to finish first. After Disconnect returns, the server's tools stop
// appearing in new search results (they remain in the registry, unlike
// Remove).
func (a *aggregator) Disconnect(ctx context.Context, serverID string) error {
	a.mu.Lock()
	c, ok := a.sessions[serverID]
	if ok {
		delete(a.sessions, serverID)
	}
	a.mu.Unlock()
	if !ok {
		return gwerrors.NewNotFoundError(fmt.Sprintf("server %q is not connected", serverID), nil)
	}

	done := make(chan struct{})
	go func() { c.wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(disconnectGrace):
	}

	err := c.session.Close()
	_ = a.reg.SetExternalServerStatus(ctx, serverID, registry.ServerDisconnected, 0)
	return err
}

// Reconnect is equivalent to Connect on an existing record, disconnecting
// first if a session is already open.
func (a *aggregator) Reconnect(ctx context.Context, serverID string) error {
	a.mu.RLock()
	_, connected := a.sessions[serverID]
	a.mu.RUnlock()
	if connected {
		_ = a.Disconnect(ctx, serverID)
	}
	return a.Connect(ctx, serverID)
}

// Remove disconnects serverID, cascades deletion of every capability it
// owns (vectors and skill assignments first, then the registry rows), and
// deletes the server record itself.
func (a *aggregator) Remove(ctx context.Context, serverID string) error {
	a.mu.RLock()
	_, connected := a.sessions[serverID]
	a.mu.RUnlock()
	if connected {
		_ = a.Disconnect(ctx, serverID)
	}

	srv, err := a.reg.GetExternalServer(ctx, serverID)
	if err != nil {
		return err
	}
	filter := registry.ListFilter{OrgID: srv.Visibility.OrgID, IncludeGlobal: true, IncludeInactive: true}

	if tools, err := a.reg.ListTools(ctx, filter); err == nil {
		for _, t := range tools {
			if t.ServerID == serverID {
				_ = a.sync.DeleteCapability(ctx, syncsvc.CapabilityRef{ID: t.ID, Kind: syncsvc.KindTool})
			}
		}
	}
	if prompts, err := a.reg.ListPrompts(ctx, filter); err == nil {
		for _, p := range prompts {
			if p.ServerID == serverID {
				_ = a.sync.DeleteCapability(ctx, syncsvc.CapabilityRef{ID: p.ID, Kind: syncsvc.KindPrompt})
			}
		}
	}
	if resources, err := a.reg.ListResources(ctx, filter); err == nil {
		for _, r := range resources {
			if r.ServerID == serverID {
				_ = a.sync.DeleteCapability(ctx, syncsvc.CapabilityRef{ID: r.ID, Kind: syncsvc.KindResource})
			}
		}
	}

	return a.reg.DeleteExternalServer(ctx, serverID)
}

// Call resolves fullyQualifiedName (the "{server}.{original_name}" form
// search returns) to its owning server and forwards the invocation.
func (a *aggregator) Call(ctx context.Context, orgID, fullyQualifiedName string, args map[string]any) (*transport.CallResult, error) {
	tools, err := a.reg.ListTools(ctx, registry.ListFilter{OrgID: orgID, IncludeGlobal: true})
	if err != nil {
		return nil, err
	}
	var target *registry.Tool
	for i := range tools {
		if tools[i].Name == fullyQualifiedName {
			target = &tools[i]
			break
		}
	}
	if target == nil {
		return nil, gwerrors.NewNotFoundError(fmt.Sprintf("tool %q not found", fullyQualifiedName), nil)
	}
	if target.Origin != registry.OriginExternal {
		return nil, gwerrors.NewValidationError(fmt.Sprintf("tool %q is internal and is not routed through the aggregator", fullyQualifiedName), nil)
	}

	srv, err := a.reg.GetExternalServer(ctx, target.ServerID)
	if err != nil {
		return nil, err
	}
	if srv.Status != registry.ServerConnected && srv.Status != registry.ServerDegraded {
		return nil, gwerrors.NewServerUnavailableError(fmt.Sprintf("server %q is %s", srv.ID, srv.Status), nil)
	}

	a.mu.RLock()
	c, ok := a.sessions[target.ServerID]
	a.mu.RUnlock()
	if !ok {
		return nil, gwerrors.NewServerUnavailableError(fmt.Sprintf("server %q has no active session", srv.ID), nil)
	}

	return callWithCancellation(ctx, c, fullyQualifiedName, target.OriginalName, args)
}

// callWithCancellation forwards a tool call to c's session but does not wait
// for it to return once ctx is cancelled. The in-flight call keeps running
// against the (now-cancelled) ctx in the background, tracked by c.wg so
// Disconnect still waits for it to unwind; its own context cancellation is
// the best-effort "notifications/cancelled" signal to the backend, since the
// adapter's underlying MCP session ties outbound cancellation notifications
// to the request context it was called with. The caller gets an immediate
// RequestCancelled rather than blocking on that round trip.
func callWithCancellation(ctx context.Context, c *conn, fullyQualifiedName, originalName string, args map[string]any) (*transport.CallResult, error) {
	type outcome struct {
		result *transport.CallResult
		err    error
	}
	done := make(chan outcome, 1)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		result, err := c.session.CallTool(ctx, originalName, args)
		done <- outcome{result, err}
	}()

	select {
	case <-ctx.Done():
		return nil, gwerrors.NewRequestCancelledError(fmt.Sprintf("call to %q cancelled", fullyQualifiedName), ctx.Err())
	case out := <-done:
		return out.result, out.err
	}
}

// RunHealthProbes blocks, probing every currently-connected server every
// probeInterval, until ctx is cancelled or Close is called.
func (a *aggregator) RunHealthProbes(ctx context.Context) {
	ticker := time.NewTicker(a.probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.closed:
			return
		case <-ticker.C:
			a.probeAll(ctx)
		}
	}
}

func (a *aggregator) probeAll(ctx context.Context) {
	a.mu.RLock()
	ids := make([]string, 0, len(a.sessions))
	for id := range a.sessions {
		ids = append(ids, id)
	}
	a.mu.RUnlock()

	for _, id := range ids {
		a.probeOne(ctx, id)
	}
}

// probeOne runs one health probe: an HTTP check against the
// server's own URL for non-stdio transports (there is no separate
// health_check_url field on the record, so the connection URL doubles as
// one), or a staleness check against the last successful probe for stdio
// servers, which have no URL to poll.
func (a *aggregator) probeOne(ctx context.Context, serverID string) {
	srv, err := a.reg.GetExternalServer(ctx, serverID)
	if err != nil {
		return
	}

	var healthy bool
	if srv.Transport != registry.TransportStdio && srv.URL != "" {
		probeCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		req, reqErr := http.NewRequestWithContext(probeCtx, http.MethodGet, srv.URL, nil)
		if reqErr == nil {
			resp, doErr := a.httpClient.Do(req)
			healthy = doErr == nil && resp.StatusCode < 500
			if resp != nil {
				resp.Body.Close()
			}
		}
		cancel()
	} else {
		healthy = time.Since(srv.LastHealthProbeAt) <= a.probeInterval
	}

	if healthy {
		_ = a.reg.SetExternalServerStatus(ctx, serverID, registry.ServerConnected, 0)
		return
	}

	failures := srv.ConsecutiveFailures + 1
	status := registry.ServerDegraded
	if failures >= maxConsecutiveFailures {
		status = registry.ServerError
	}
	_ = a.reg.SetExternalServerStatus(ctx, serverID, status, failures)
	if status == registry.ServerError {
		a.scheduleReconnect(serverID)
	}
}

// forwardNotification builds the transport.NotificationHandler registered
// against serverID's session, relaying every unsolicited server-to-client
// message onward through a.notify tagged with the originating server.
func (a *aggregator) forwardNotification(serverID, orgID string) transport.NotificationHandler {
	return func(method string, params map[string]any) {
		if a.notify == nil {
			return
		}
		a.notify(orgID, "backend:"+serverID, fmt.Sprintf("%s: %v", method, params))
	}
}

func (a *aggregator) handleInvoluntaryClose(serverID string, reason error) {
	a.mu.Lock()
	_, tracked := a.sessions[serverID]
	delete(a.sessions, serverID)
	a.mu.Unlock()
	if !tracked {
		// Disconnect, Remove and Close drop the session from the map before
		// closing it, so an untracked session was closed on purpose.
		return
	}

	logger.Warnw("external server session closed unexpectedly", "server_id", serverID, "reason", reason)
	_ = a.reg.SetExternalServerStatus(context.Background(), serverID, registry.ServerError, 1)
	a.scheduleReconnect(serverID)
}

// scheduleReconnect retries Connect with exponential backoff capped at 60s
// until it succeeds or the aggregator is closed.
func (a *aggregator) scheduleReconnect(serverID string) {
	go func() {
		b := backoff.NewExponentialBackOff()
		b.MaxInterval = 60 * time.Second

		operation := func() (struct{}, error) {
			select {
			case <-a.closed:
				return struct{}{}, backoff.Permanent(fmt.Errorf("aggregator: closed"))
			default:
			}
			return struct{}{}, a.Connect(context.Background(), serverID)
		}
		if _, err := backoff.Retry(context.Background(), operation, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(0)); err != nil {
			logger.Warnw("reconnect attempts exhausted", "server_id", serverID, "error", err)
		}
	}()
}

// Close tears down every open session. After Close returns the Aggregator
// must not be used again.
func (a *aggregator) Close() error {
	a.mu.Lock()
	select {
	case <-a.closed:
	default:
		close(a.closed)
	}
	sessions := a.sessions
	a.sessions = make(map[string]*conn)
	a.mu.Unlock()

	var firstErr error
	for id, c := range sessions {
		if err := c.session.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("aggregator: close %q: %w", id, err)
		}
	}
	return firstErr
}
