// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
)

// RetryingClient wraps a Client with exponential-backoff retry. Every error
// from the underlying backend is retried except a ValidationError or
// EmbeddingRejected; backend 4xx responses are not told apart from
// transport or 5xx failures and are retried as well.
type RetryingClient struct {
	delegate   Client
	maxRetries uint
}

var _ Client = (*RetryingClient)(nil)

// NewRetryingClient wraps delegate, making at most maxRetries attempts in
// total per call.
func NewRetryingClient(delegate Client, maxRetries uint) *RetryingClient {
	if maxRetries == 0 {
		maxRetries = 3
	}
	return &RetryingClient{delegate: delegate, maxRetries: maxRetries}
}

func (c *RetryingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	return retry(ctx, c.maxRetries, func() ([]float32, error) {
		return c.delegate.Embed(ctx, text)
	})
}

func (c *RetryingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return retry(ctx, c.maxRetries, func() ([][]float32, error) {
		return c.delegate.EmbedBatch(ctx, texts)
	})
}

func (c *RetryingClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return retry(ctx, c.maxRetries, func() (string, error) {
		return c.delegate.Complete(ctx, systemPrompt, userPrompt)
	})
}

func (c *RetryingClient) Dimensions() int {
	return c.delegate.Dimensions()
}

// retry runs op with exponential backoff, giving up after maxRetries
// attempts or when ctx is done. A ValidationError or EmbeddingRejected from
// op is treated as permanent, since retrying a malformed request never
// succeeds.
func retry[T any](ctx context.Context, maxRetries uint, op func() (T, error)) (T, error) {
	wrapped := func() (T, error) {
		v, err := op()
		if err == nil {
			return v, nil
		}
		if gwerrors.Type(err) == gwerrors.ErrValidation || gwerrors.Type(err) == gwerrors.ErrEmbeddingRejected {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	return backoff.Retry(ctx, wrapped,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxRetries),
		backoff.WithMaxElapsedTime(30*time.Second),
	)
}
