// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package stdioadapter connects to an external MCP server over stdio,
// spawning a child process and exchanging newline-delimited JSON-RPC frames
// on its stdin/stdout via the official SDK's CommandTransport.
package stdioadapter

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stacklok/toolhive-gateway/pkg/transport"
)

// shutdownGrace is how long Close waits for the child process to exit on
// its own before escalating to a kill.
const shutdownGrace = 5 * time.Second

// Adapter implements transport.Session over a spawned child process.
type Adapter struct {
	command string
	args    []string
	env     map[string]string

	mu      sync.Mutex
	cmd     *exec.Cmd
	client  *mcpsdk.Client
	session *mcpsdk.ClientSession
	closed  bool

	notify NotificationHandlerSlot
	onClose transport.CloseHandler
}

// NotificationHandlerSlot is an alias of transport.NotificationHandler for
// the single registered notification handler. This adapter stores the
// handler but does not invoke it.
type NotificationHandlerSlot = transport.NotificationHandler

var _ transport.Session = (*Adapter)(nil)

// New builds an Adapter for a server invoked as command, with args split on
// spaces if args is nil (e.g. "/usr/local/bin/mcp-server --flag").
func New(command string, args []string, env map[string]string) *Adapter {
	if len(args) == 0 {
		command, args = splitCommand(command)
	}
	return &Adapter{command: command, args: args, env: env}
}

func splitCommand(command string) (string, []string) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}

// Start implements transport.Session.
func (a *Adapter) Start(ctx context.Context) error {
	if a.command == "" {
		return fmt.Errorf("stdioadapter: empty command")
	}

	cmd := exec.CommandContext(ctx, a.command, a.args...)
	for k, v := range a.env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "toolhive-gateway", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcpsdk.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return fmt.Errorf("stdioadapter: connect to %q: %w", a.command, err)
	}

	a.mu.Lock()
	a.cmd = cmd
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
			return nil, fmt.Errorf("stdioadapter: list tools: %w", err)
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
			return nil, fmt.Errorf("stdioadapter: list prompts: %w", err)
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
			return nil, fmt.Errorf("stdioadapter: list resources: %w", err)
		}
		out = append(out, transport.ResourceDescriptor{URI: r.URI, Name: r.Name, Description: r.Description, MimeType: r.MIMEType})
	}
	return out, nil
}

// CallTool implements transport.Session.
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
		return nil, fmt.Errorf("stdioadapter: call tool %q: %w", name, err)
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

// Close implements transport.Session. It closes the session, then gives the
// child process shutdownGrace to exit before escalating to a kill.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	session, cmd, onClose := a.session, a.cmd, a.onClose
	a.mu.Unlock()

	var closeErr error
	if session != nil {
		closeErr = session.Close()
	}

	if cmd != nil && cmd.Process != nil {
		done := make(chan struct{})
		go func() { _ = cmd.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(shutdownGrace):
			_ = cmd.Process.Kill()
		}
	}

	if onClose != nil {
		onClose(closeErr)
	}
	return closeErr
}

func (a *Adapter) activeSession() (*mcpsdk.ClientSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("stdioadapter: session not started")
	}
	return a.session, nil
}

// schemaToMap normalizes the SDK's schema representation to a plain map,
// the shape the registry and search response serialize directly.
func schemaToMap(schema any) map[string]any {
	if schema == nil {
		return map[string]any{"type": "object"}
	}
	if m, ok := schema.(map[string]any); ok {
		return m
	}
	return map[string]any{"type": "object"}
}
