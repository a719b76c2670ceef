// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package mcpserver exposes the gateway itself as an MCP server: upstream
// clients speak JSON-RPC 2.0 over streamable HTTP at /mcp, see every
// external tool visible to them (whatever its server's connection status)
// under their namespaced names, and have
// tools/call forwarded straight through to the aggregator (C8) — the same
// path POST /tools/call uses.
package mcpserver

import (
	"context"
	"net/http"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stacklok/toolhive-gateway/pkg/aggregator"
	"github.com/stacklok/toolhive-gateway/pkg/logger"
	"github.com/stacklok/toolhive-gateway/pkg/registry"
	"github.com/stacklok/toolhive-gateway/pkg/tenancy"
)

const serverName = "toolhive-gateway"

// OrgResolver extracts the caller's org from an inbound HTTP request, the
// same X-Organization-Id/identity precedence C9 applies to the REST surface.
// The default is tenancy.ResolveFromRequest.
type OrgResolver func(r *http.Request) string

// Server builds a fresh *mcp.Server per inbound connection, scoped to the
// caller's org, so two tenants connected concurrently never see each
// other's external tools.
type Server struct {
	reg        registry.Registry
	agg        aggregator.Aggregator
	resolveOrg OrgResolver
	version    string

	mu       sync.Mutex
	sessions map[string]map[*mcpsdk.ServerSession]struct{} // orgID -> live client sessions
}

// New wires a Server. resolveOrg defaults to tenancy.ResolveFromRequest when nil.
func New(reg registry.Registry, agg aggregator.Aggregator, resolveOrg OrgResolver, version string) *Server {
	if resolveOrg == nil {
		resolveOrg = func(r *http.Request) string { return tenancy.ResolveFromRequest(r).OrgID }
	}
	if version == "" {
		version = "dev"
	}
	return &Server{
		reg: reg, agg: agg, resolveOrg: resolveOrg, version: version,
		sessions: make(map[string]map[*mcpsdk.ServerSession]struct{}),
	}
}

// Notify relays a pipeline-tagged message to every MCP client currently
// connected under orgID (or, when orgID is empty, to every connected
// client — the scope a global external server's notifications reach) as a
// notifications/message frame. Best-effort: a session that fails to accept
// the log message is assumed gone and dropped from the registry.
func (s *Server) Notify(orgID, stage, message string) {
	type target struct {
		orgID   string
		session *mcpsdk.ServerSession
	}

	s.mu.Lock()
	var targets []target
	if orgID == "" {
		for org, sessions := range s.sessions {
			for sess := range sessions {
				targets = append(targets, target{org, sess})
			}
		}
	} else {
		for sess := range s.sessions[orgID] {
			targets = append(targets, target{orgID, sess})
		}
	}
	s.mu.Unlock()

	for _, t := range targets {
		err := t.session.Log(context.Background(), &mcpsdk.LoggingMessageParams{
			Logger: stage,
			Data:   message,
		})
		if err != nil {
			s.untrackSession(t.orgID, t.session)
		}
	}
}

func (s *Server) trackSession(orgID string, session *mcpsdk.ServerSession) {
	if session == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[orgID] == nil {
		s.sessions[orgID] = make(map[*mcpsdk.ServerSession]struct{})
	}
	s.sessions[orgID][session] = struct{}{}
}

func (s *Server) untrackSession(orgID string, session *mcpsdk.ServerSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions[orgID], session)
}

// Handler returns the http.Handler to mount at /mcp.
func (s *Server) Handler() http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(s.buildSession, nil)
}

func (s *Server) buildSession(r *http.Request) *mcpsdk.Server {
	orgID := s.resolveOrg(r)

	srv := mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: s.version}, &mcpsdk.ServerOptions{
		InitializedHandler: func(_ context.Context, req *mcpsdk.InitializedRequest) {
			s.trackSession(orgID, req.Session)
		},
	})

	ctx := r.Context()
	filter := registry.ListFilter{OrgID: orgID, IncludeGlobal: true}

	if tools, err := s.reg.ListTools(ctx, filter); err == nil {
		for _, t := range tools {
			if t.Origin != registry.OriginExternal {
				continue
			}
			s.registerTool(srv, orgID, t)
		}
	} else {
		logger.Warnw("mcp session: listing tools failed", "org_id", orgID, "error", err)
	}

	if prompts, err := s.reg.ListPrompts(ctx, filter); err == nil {
		for _, p := range prompts {
			if p.Origin != registry.OriginExternal {
				continue
			}
			s.registerPrompt(srv, p)
		}
	}

	if resources, err := s.reg.ListResources(ctx, filter); err == nil {
		for _, res := range resources {
			if res.Origin != registry.OriginExternal {
				continue
			}
			s.registerResource(srv, res)
		}
	}

	return srv
}

func (s *Server) registerTool(srv *mcpsdk.Server, orgID string, t registry.Tool) {
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}, s.callHandler(orgID, t.Name))
}

// callHandler forwards one namespaced tool's invocations to the aggregator.
// Split out from registerTool so it can be exercised without the SDK's own
// dispatch machinery.
func (s *Server) callHandler(orgID, fullyQualifiedName string) func(context.Context, *mcpsdk.CallToolRequest, map[string]any) (*mcpsdk.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input map[string]any) (*mcpsdk.CallToolResult, any, error) {
		result, err := s.agg.Call(ctx, orgID, fullyQualifiedName, input)
		if err != nil {
			return &mcpsdk.CallToolResult{
				IsError: true,
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
			}, nil, nil
		}
		return &mcpsdk.CallToolResult{
			IsError: result.IsError,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: result.Content}},
		}, nil, nil
	}
}

// registerPrompt and registerResource advertise external prompts/resources
// read-only: their content is served by the owning backend, not evaluated
// here (evaluating a prompt template or resolving a resource's content is
// tool business logic the gateway does not perform.
func (s *Server) registerPrompt(srv *mcpsdk.Server, p registry.Prompt) {
	args := make([]*mcpsdk.PromptArgument, 0, len(p.Arguments))
	for _, a := range p.Arguments {
		args = append(args, &mcpsdk.PromptArgument{Name: a.Name, Description: a.Description, Required: a.Required})
	}
	srv.AddPrompt(&mcpsdk.Prompt{Name: p.Name, Description: p.Description, Arguments: args},
		func(ctx context.Context, req *mcpsdk.GetPromptRequest) (*mcpsdk.GetPromptResult, error) {
			return nil, errUnsupportedOnGateway("prompts/get", p.Name)
		})
}

func (s *Server) registerResource(srv *mcpsdk.Server, r registry.Resource) {
	srv.AddResource(&mcpsdk.Resource{URI: r.Scheme + r.Name, Name: r.Name, Description: r.Description},
		func(ctx context.Context, req *mcpsdk.ReadResourceRequest) (*mcpsdk.ReadResourceResult, error) {
			return nil, errUnsupportedOnGateway("resources/read", r.Name)
		})
}

type unsupportedError struct {
	op, name string
}

func (e *unsupportedError) Error() string {
	return e.op + " for " + e.name + " must be issued directly against the owning server; the gateway only aggregates tools/call"
}

func errUnsupportedOnGateway(op, name string) error {
	return &unsupportedError{op: op, name: name}
}
