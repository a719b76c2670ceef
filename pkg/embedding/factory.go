// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"fmt"
	"strings"

	"github.com/stacklok/toolhive-gateway/pkg/config"
)

// NewFromConfig builds the gateway's default Client chain for cfg: an
// OpenAI-backed embedder, optionally routed for completion through
// any-llm-go when completion_model names a non-OpenAI provider, wrapped
// with retry, a caller-configurable rate limit, and an LRU cache.
//
// Caching sits outermost so a cache hit consumes neither a retry budget nor
// a unit of the rate limit; the limiter sits inside retry so every retry
// attempt, not just the first, is subject to the configured rate.
func NewFromConfig(cfg *config.Config, openAIAPIKey string) (Client, error) {
	base, err := NewOpenAIClient(openAIAPIKey, cfg.EmbeddingModel, "")
	if err != nil {
		return nil, fmt.Errorf("embedding: building openai client: %w", err)
	}

	var client Client = base
	if provider, model, ok := strings.Cut(cfg.CompletionModel, ":"); ok && !strings.EqualFold(provider, "openai") {
		anyLLM, err := NewAnyLLMClient(provider+":"+model, base)
		if err != nil {
			return nil, fmt.Errorf("embedding: building any-llm client: %w", err)
		}
		client = anyLLM
	}

	client = NewRateLimitingClient(client, cfg.EmbeddingRateLimitPerSecond, cfg.EmbeddingRateLimitBurst)
	client = NewRetryingClient(client, 3)
	client = NewCachingClient(client, 4096)
	return client, nil
}
