// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package httpadapter connects to an external MCP server over the
// streamable-HTTP transport: request/response JSON-RPC over POST. The
// handler registered with OnNotification is stored but not invoked:
// notifications the server streams back during a call are not passed on.
package httpadapter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stacklok/toolhive-gateway/pkg/transport"
)

// Adapter implements transport.Session over the streamable-HTTP transport.
type Adapter struct {
	endpoint string
	headers  map[string]string

	mu      sync.Mutex
	client  *mcpsdk.Client
	session *mcpsdk.ClientSession
	closed  bool

	notify  transport.NotificationHandler
	onClose transport.CloseHandler
}

var _ transport.Session = (*Adapter)(nil)

// New builds an Adapter targeting endpoint. headers is stored on the
// Adapter but is not attached to outgoing requests.
func New(endpoint string, headers map[string]string) *Adapter {
	return &Adapter{endpoint: endpoint, headers: headers}
}

// Start implements transport.Session.
func (a *Adapter) Start(ctx context.Context) error {
	if a.endpoint == "" {
		return fmt.Errorf("httpadapter: empty endpoint")
	}
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "toolhive-gateway", Version: "1.0.0"}, nil)

	transportImpl := &mcpsdk.StreamableClientTransport{Endpoint: a.endpoint, MaxRetries: 3}
	session, err := client.Connect(ctx, transportImpl, nil)
	if err != nil {
		return fmt.Errorf("httpadapter: connect to %q: %w", a.endpoint, err)
	}

	a.mu.Lock()
	a.client = client
	a.session = session
	a.mu.Unlock()
	return nil
}

// ListTools implements transport.Session.
func (a *Adapter) ListTools(ctx context.Context) ([]transport.ToolDescriptor, error) {
	session, err := a.activeSession()
	if err != nil {
		return nil, err
	}
	var out []transport.ToolDescriptor
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("httpadapter: list tools: %w", err)
		}
		out = append(out, transport.ToolDescriptor{
			Name: tool.Name, Description: tool.Description, InputSchema: schemaToMap(tool.InputSchema),
		})
	}
	return out, nil
}

// ListPrompts implements transport.Session.
func (a *Adapter) ListPrompts(ctx context.Context) ([]transport.PromptDescriptor, error) {
	session, err := a.activeSession()
	if err != nil {
		return nil, err
	}
	var out []transport.PromptDescriptor
	for p, err := range session.Prompts(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("httpadapter: list prompts: %w", err)
		}
		args := make([]transport.PromptArgument, 0, len(p.Arguments))
		for _, pa := range p.Arguments {
			args = append(args, transport.PromptArgument{Name: pa.Name, Description: pa.Description, Required: pa.Required})
		}
		out = append(out, transport.PromptDescriptor{Name: p.Name, Description: p.Description, Arguments: args})
	}
	return out, nil
}

// ListResources implements transport.Session.
func (a *Adapter) ListResources(ctx context.Context) ([]transport.ResourceDescriptor, error) {
	session, err := a.activeSession()
	if err != nil {
		return nil, err
	}
	var out []transport.ResourceDescriptor
	for r, err := range session.Resources(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("httpadapter: list resources: %w", err)
		}
		out = append(out, transport.ResourceDescriptor{URI: r.URI, Name: r.Name, Description: r.Description, MimeType: r.MIMEType})
	}
	return out, nil
}

// CallTool implements transport.Session. Notifications the server streams
// back over the call's text/event-stream response are not delivered to the
// registered NotificationHandler.
func (a *Adapter) CallTool(ctx context.Context, name string, args map[string]any) (*transport.CallResult, error) {
	session, err := a.activeSession()
	if err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, transport.DefaultCallTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("httpadapter: call tool %q: %w", name, err)
	}

	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return &transport.CallResult{Content: sb.String(), IsError: result.IsError, DurationMs: time.Since(start).Milliseconds()}, nil
}

// OnNotification implements transport.Session.
func (a *Adapter) OnNotification(h transport.NotificationHandler) {
	a.mu.Lock()
	a.notify = h
	a.mu.Unlock()
}

// OnClose implements transport.Session.
func (a *Adapter) OnClose(h transport.CloseHandler) {
	a.mu.Lock()
	a.onClose = h
	a.mu.Unlock()
}

// Close implements transport.Session.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	session, onClose := a.session, a.onClose
	a.mu.Unlock()

	var err error
	if session != nil {
		err = session.Close()
	}
	if onClose != nil {
		onClose(err)
	}
	return err
}

func (a *Adapter) activeSession() (*mcpsdk.ClientSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("httpadapter: session not started")
	}
	return a.session, nil
}

func schemaToMap(schema any) map[string]any {
	if schema == nil {
		return map[string]any{"type": "object"}
	}
	if m, ok := schema.(map[string]any); ok {
		return m
	}
	return map[string]any{"type": "object"}
}
