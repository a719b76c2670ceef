// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package sseadapter connects to an external MCP server over the legacy
// HTTP+SSE transport: a GET request opens a server-to-client event stream,
// whose first frame is an "endpoint" event naming the companion URL that
// outgoing JSON-RPC requests POST to. Servers that never deliver that
// handshake frame are assumed to only speak a raw duplex instead, so the
// adapter falls back to a coder/websocket connection to the same URL.
//
// This transport has no equivalent in the official MCP Go SDK (which only
// ships a streamable-HTTP client transport), so the framing below is
// implemented directly against the wire protocol rather than grounded on a
// single call site.
package sseadapter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/stacklok/toolhive-gateway/pkg/transport"
)

// handshakeTimeout bounds how long Start waits for the server's initial
// "endpoint" event before falling back to the websocket duplex.
const handshakeTimeout = 5 * time.Second

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string { return fmt.Sprintf("sseadapter: rpc error %d: %s", e.Code, e.Message) }

// Adapter implements transport.Session over HTTP+SSE, falling back to a
// websocket duplex when the server doesn't negotiate a companion endpoint.
type Adapter struct {
	url     string
	headers map[string]string

	httpClient *http.Client

	mu           sync.Mutex
	postEndpoint string
	ws           *websocket.Conn
	pending      map[int64]chan rpcResponse
	nextID       atomic.Int64
	closed       bool
	cancelStream context.CancelFunc

	notify  transport.NotificationHandler
	onClose transport.CloseHandler
}

var _ transport.Session = (*Adapter)(nil)

// New builds an Adapter targeting url, with headers attached to the initial
// SSE GET and to every outgoing POST.
func New(url string, headers map[string]string) *Adapter {
	return &Adapter{
		url:        url,
		headers:    headers,
		httpClient: &http.Client{},
		pending:    make(map[int64]chan rpcResponse),
	}
}

// Start implements transport.Session.
func (a *Adapter) Start(ctx context.Context) error {
	if a.url == "" {
		return fmt.Errorf("sseadapter: empty url")
	}

	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancelStream = cancel

	endpointCh := make(chan string, 1)
	go a.readStream(streamCtx, endpointCh)

	select {
	case endpoint, ok := <-endpointCh:
		if ok && endpoint != "" {
			a.mu.Lock()
			a.postEndpoint = endpoint
			a.mu.Unlock()
			return nil
		}
	case <-time.After(handshakeTimeout):
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}

	// No companion POST endpoint negotiated in time: fall back to a
	// websocket duplex against the same URL.
	wsURL := toWebsocketURL(a.url)
	ws, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		cancel()
		return fmt.Errorf("sseadapter: no SSE endpoint handshake and websocket fallback failed: %w", err)
	}
	a.mu.Lock()
	a.ws = ws
	a.mu.Unlock()
	go a.readWebsocket(streamCtx)
	return nil
}

func toWebsocketURL(url string) string {
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://")
	default:
		return url
	}
}

// readStream parses the SSE response, delivering the negotiated endpoint
// once over endpointCh and dispatching every subsequent "message" frame as
// either a response (routed to a pending call) or a notification.
func (a *Adapter) readStream(ctx context.Context, endpointCh chan<- string) {
	defer close(endpointCh)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	for k, v := range a.headers {
		req.Header.Set(k, v)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event, data string
	sentEndpoint := false
	flush := func() {
		defer func() { event, data = "", "" }()
		if data == "" {
			return
		}
		switch event {
		case "endpoint":
			if !sentEndpoint {
				sentEndpoint = true
				endpointCh <- data
			}
		case "message", "":
			a.dispatch([]byte(data))
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}

	a.handleClosed(scanner.Err())
}

func (a *Adapter) readWebsocket(ctx context.Context) {
	for {
		a.mu.Lock()
		ws := a.ws
		a.mu.Unlock()
		if ws == nil {
			return
		}
		_, data, err := ws.Read(ctx)
		if err != nil {
			a.handleClosed(err)
			return
		}
		a.dispatch(data)
	}
}

func (a *Adapter) dispatch(raw []byte) {
	var msg rpcResponse
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if msg.ID != nil {
		a.mu.Lock()
		ch, ok := a.pending[*msg.ID]
		if ok {
			delete(a.pending, *msg.ID)
		}
		a.mu.Unlock()
		if ok {
			ch <- msg
		}
		return
	}
	a.mu.Lock()
	handler := a.notify
	a.mu.Unlock()
	if handler != nil {
		var params map[string]any
		_ = json.Unmarshal(msg.Params, &params)
		handler(msg.Method, params)
	}
}

func (a *Adapter) handleClosed(reason error) {
	a.mu.Lock()
	already := a.closed
	a.closed = true
	handler := a.onClose
	pending := a.pending
	a.pending = make(map[int64]chan rpcResponse)
	a.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}
	if !already && handler != nil {
		handler(reason)
	}
}

// send transmits an outgoing JSON-RPC request via whichever channel was
// negotiated at Start and waits for its correlated response.
func (a *Adapter) send(ctx context.Context, method string, params any) (rpcResponse, error) {
	id := a.nextID.Add(1)
	req := rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	body, err := json.Marshal(req)
	if err != nil {
		return rpcResponse{}, err
	}

	ch := make(chan rpcResponse, 1)
	a.mu.Lock()
	a.pending[id] = ch
	postEndpoint, ws := a.postEndpoint, a.ws
	a.mu.Unlock()

	switch {
	case ws != nil:
		if err := ws.Write(ctx, websocket.MessageText, body); err != nil {
			return rpcResponse{}, fmt.Errorf("sseadapter: websocket write: %w", err)
		}
	case postEndpoint != "":
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, postEndpoint, strings.NewReader(string(body)))
		if err != nil {
			return rpcResponse{}, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		for k, v := range a.headers {
			httpReq.Header.Set(k, v)
		}
		resp, err := a.httpClient.Do(httpReq)
		if err != nil {
			return rpcResponse{}, fmt.Errorf("sseadapter: post %s: %w", method, err)
		}
		resp.Body.Close()
	default:
		return rpcResponse{}, fmt.Errorf("sseadapter: no connection established")
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return rpcResponse{}, fmt.Errorf("sseadapter: connection closed while waiting for %s", method)
		}
		if resp.Error != nil {
			return rpcResponse{}, resp.Error
		}
		return resp, nil
	case <-ctx.Done():
		a.mu.Lock()
		delete(a.pending, id)
		a.mu.Unlock()
		return rpcResponse{}, ctx.Err()
	}
}

// ListTools implements transport.Session.
func (a *Adapter) ListTools(ctx context.Context) ([]transport.ToolDescriptor, error) {
	resp, err := a.send(ctx, "tools/list", map[string]any{})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Tools []transport.ToolDescriptor `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &payload); err != nil {
		return nil, fmt.Errorf("sseadapter: decode tools/list: %w", err)
	}
	return payload.Tools, nil
}

// ListPrompts implements transport.Session.
func (a *Adapter) ListPrompts(ctx context.Context) ([]transport.PromptDescriptor, error) {
	resp, err := a.send(ctx, "prompts/list", map[string]any{})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Prompts []transport.PromptDescriptor `json:"prompts"`
	}
	if err := json.Unmarshal(resp.Result, &payload); err != nil {
		return nil, fmt.Errorf("sseadapter: decode prompts/list: %w", err)
	}
	return payload.Prompts, nil
}

// ListResources implements transport.Session.
func (a *Adapter) ListResources(ctx context.Context) ([]transport.ResourceDescriptor, error) {
	resp, err := a.send(ctx, "resources/list", map[string]any{})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Resources []transport.ResourceDescriptor `json:"resources"`
	}
	if err := json.Unmarshal(resp.Result, &payload); err != nil {
		return nil, fmt.Errorf("sseadapter: decode resources/list: %w", err)
	}
	return payload.Resources, nil
}

// CallTool implements transport.Session.
func (a *Adapter) CallTool(ctx context.Context, name string, args map[string]any) (*transport.CallResult, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, transport.DefaultCallTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := a.send(ctx, "tools/call", map[string]any{"name": name, "arguments": args})
	if err != nil {
		return nil, fmt.Errorf("sseadapter: call tool %q: %w", name, err)
	}

	var payload struct {
		IsError bool `json:"isError"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(resp.Result, &payload); err != nil {
		return nil, fmt.Errorf("sseadapter: decode tools/call result: %w", err)
	}

	var sb strings.Builder
	for _, c := range payload.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	return &transport.CallResult{Content: sb.String(), IsError: payload.IsError, DurationMs: time.Since(start).Milliseconds()}, nil
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
	ws := a.ws
	cancel := a.cancelStream
	onClose := a.onClose
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	var err error
	if ws != nil {
		err = ws.Close(websocket.StatusNormalClosure, "session closed")
	}
	if onClose != nil {
		onClose(err)
	}
	return err
}
