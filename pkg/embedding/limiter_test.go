// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimitingClient_Disabled_PassesThroughImmediately(t *testing.T) {
	t.Parallel()

	fake := &fakeClient{}
	c := NewRateLimitingClient(fake, 0, 0)

	start := time.Now()
	for range 10 {
		_, err := c.Embed(context.Background(), "hello")
		require.NoError(t, err)
	}
	require.Less(t, time.Since(start), 100*time.Millisecond)
	require.Equal(t, 10, fake.embedCalls)
}

func TestRateLimitingClient_EnforcesRate(t *testing.T) {
	t.Parallel()

	fake := &fakeClient{}
	// 10 req/s with a burst of 1: the second call must wait ~100ms.
	c := NewRateLimitingClient(fake, 10, 1)

	start := time.Now()
	_, err := c.Embed(context.Background(), "a")
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), "b")
	require.NoError(t, err)

	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.Equal(t, 2, fake.embedCalls)
}

func TestRateLimitingClient_RespectsContextCancellation(t *testing.T) {
	t.Parallel()

	fake := &fakeClient{}
	c := NewRateLimitingClient(fake, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := c.Embed(ctx, "first")
	require.NoError(t, err)

	cancel()
	_, err = c.Embed(ctx, "second")
	require.Error(t, err)
	require.Equal(t, 1, fake.embedCalls, "delegate must not be called once the wait is cancelled")
}

func TestRateLimitingClient_Dimensions(t *testing.T) {
	t.Parallel()
	fake := &fakeClient{dims: 1536}
	c := NewRateLimitingClient(fake, 10, 1)
	require.Equal(t, 1536, c.Dimensions())
}
