// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"
)

// AnyLLMClient implements Client's Complete method against any provider
// supported by any-llm-go, selected by a "provider:model" completion_model
// config value (e.g. "anthropic:claude-3-5-haiku-latest"). Embed/EmbedBatch
// delegate to an embedding-only Client, since any-llm-go targets chat
// completion, not embeddings.
type AnyLLMClient struct {
	backend      anyllmlib.Provider
	model        string
	embeddingDeleg Client
}

var _ Client = (*AnyLLMClient)(nil)

// NewAnyLLMClient builds an AnyLLMClient. completionModel is
// "provider:model", e.g. "ollama:llama3.1". embeddingDelegate supplies
// Embed/EmbedBatch/Dimensions.
func NewAnyLLMClient(completionModel string, embeddingDelegate Client, opts ...anyllmlib.Option) (*AnyLLMClient, error) {
	providerName, model, ok := strings.Cut(completionModel, ":")
	if !ok {
		return nil, fmt.Errorf("embedding: anyllm: completion model must be \"provider:model\", got %q", completionModel)
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("embedding: anyllm: create %q backend: %w", providerName, err)
	}

	return &AnyLLMClient{backend: backend, model: model, embeddingDeleg: embeddingDelegate}, nil
}

func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, gemini, ollama", providerName)
	}
}

// Embed implements Client by delegating to the embedding backend.
func (c *AnyLLMClient) Embed(ctx context.Context, text string) ([]float32, error) {
	return c.embeddingDeleg.Embed(ctx, text)
}

// EmbedBatch implements Client by delegating to the embedding backend.
func (c *AnyLLMClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embeddingDeleg.EmbedBatch(ctx, texts)
}

// Dimensions implements Client by delegating to the embedding backend.
func (c *AnyLLMClient) Dimensions() int {
	return c.embeddingDeleg.Dimensions()
}

// Complete implements Client against the configured any-llm-go provider.
func (c *AnyLLMClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var messages []anyllmlib.Message
	if systemPrompt != "" {
		messages = append(messages, anyllmlib.Message{Role: anyllmlib.RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, anyllmlib.Message{Role: "user", Content: userPrompt})

	resp, err := c.backend.Completion(ctx, anyllmlib.CompletionParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("embedding: anyllm complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("embedding: anyllm complete: empty choices")
	}
	return resp.Choices[0].Message.ContentString(), nil
}
