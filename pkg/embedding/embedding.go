// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package embedding wraps the gateway's outbound calls to embedding and
// chat-completion backends: turning capability/query text into vectors for
// C2, and turning classifier prompts into structured completions for C4.
package embedding

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=embedding.go Client

import (
	"context"
)

// Client is the boundary every component that needs text-to-vector or
// text-to-completion calls depends on.
type Client interface {
	// Embed returns the embedding vector for a single piece of text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one embedding vector per input text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Complete returns a chat completion for prompt, with no tool calls.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Dimensions is the fixed dimension D of vectors this client produces.
	Dimensions() int
}
