// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitingClient wraps a Client with a caller-configurable token-bucket
// rate limit shared across all callers, so concurrent sync/search/classifier
// callers cannot collectively exceed the configured backend quota.
type RateLimitingClient struct {
	delegate Client
	limiter  *rate.Limiter
}

var _ Client = (*RateLimitingClient)(nil)

// NewRateLimitingClient wraps delegate, allowing up to requestsPerSecond
// calls per second with bursts up to burst. requestsPerSecond <= 0 disables
// limiting (delegate is called directly).
func NewRateLimitingClient(delegate Client, requestsPerSecond float64, burst int) *RateLimitingClient {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
	return &RateLimitingClient{delegate: delegate, limiter: limiter}
}

func (c *RateLimitingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.delegate.Embed(ctx, text)
}

func (c *RateLimitingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.delegate.EmbedBatch(ctx, texts)
}

func (c *RateLimitingClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	return c.delegate.Complete(ctx, systemPrompt, userPrompt)
}

func (c *RateLimitingClient) Dimensions() int {
	return c.delegate.Dimensions()
}

func (c *RateLimitingClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
