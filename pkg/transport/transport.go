// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package transport defines the common Session boundary the three
// external-server adapters (stdio, SSE, streamable-HTTP) implement, so the
// aggregator can treat every connected server identically regardless of its
// wire transport.
package transport

//go:generate mockgen -destination=mocks/mock_transport.go -package=mocks -source=transport.go Session

import (
	"context"
	"time"
)

// DefaultCallTimeout is the per-call deadline every adapter enforces absent
// an explicit context deadline from the caller.
const DefaultCallTimeout = 30 * time.Second

// ToolDescriptor is a capability as discovered from an external server's
// tools/list response.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// PromptDescriptor is a capability as discovered from an external server's
// prompts/list response.
type PromptDescriptor struct {
	Name        string
	Description string
	Arguments   []PromptArgument
}

// PromptArgument mirrors one named prompt argument.
type PromptArgument struct {
	Name        string
	Description string
	Required    bool
}

// ResourceDescriptor is a capability as discovered from an external
// server's resources/list response.
type ResourceDescriptor struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// CallResult is the outcome of a tool invocation.
type CallResult struct {
	Content    string
	IsError    bool
	DurationMs int64
}

// NotificationHandler receives an out-of-band JSON-RPC notification (e.g.
// a progress update) pushed by the server during or between calls.
type NotificationHandler func(method string, params map[string]any)

// CloseHandler is invoked once when a session's connection is lost,
// whether via an explicit Close or a transport-level failure.
type CloseHandler func(reason error)

// Session is the capability every external-server adapter exposes to the
// aggregator (C8). Implementations must be safe for concurrent use: the
// aggregator may call CallTool from multiple goroutines against the same
// session.
type Session interface {
	// Start establishes the underlying connection (spawning a process,
	// opening an HTTP/SSE stream, etc.) and blocks until the session is
	// ready or the attempt fails.
	Start(ctx context.Context) error

	// ListTools returns the server's current tool catalog.
	ListTools(ctx context.Context) ([]ToolDescriptor, error)
	// ListPrompts returns the server's current prompt catalog. Adapters
	// return the server's error when it doesn't implement prompts/list.
	ListPrompts(ctx context.Context) ([]PromptDescriptor, error)
	// ListResources returns the server's current resource catalog.
	ListResources(ctx context.Context) ([]ResourceDescriptor, error)

	// CallTool invokes name with args and returns its result. A non-nil
	// *CallResult is returned on an application-level error (IsError=true);
	// a Go error is returned only on a transport or protocol failure.
	CallTool(ctx context.Context, name string, args map[string]any) (*CallResult, error)

	// OnNotification registers the handler invoked for unsolicited
	// server-to-client notifications.
	OnNotification(h NotificationHandler)
	// OnClose registers the handler invoked once the session's connection
	// is lost.
	OnClose(h CloseHandler)

	// Close tears down the connection. Safe to call more than once.
	Close() error
}
