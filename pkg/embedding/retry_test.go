// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	gwerrors "github.com/stacklok/toolhive-gateway/pkg/errors"
)

func TestRetryingClient_Embed_RetriesTransientFailure(t *testing.T) {
	t.Parallel()

	attempts := 0
	fake := &fakeClient{embedFn: func(_ string) ([]float32, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("transient network error")
		}
		return []float32{1, 2, 3}, nil
	}}

	c := NewRetryingClient(fake, 5)
	v, err := c.Embed(context.Background(), "hello")

	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3}, v)
	require.Equal(t, 2, attempts)
}

func TestRetryingClient_Embed_StopsOnValidationError(t *testing.T) {
	t.Parallel()

	attempts := 0
	fake := &fakeClient{embedFn: func(_ string) ([]float32, error) {
		attempts++
		return nil, gwerrors.NewValidationError("bad input", nil)
	}}

	c := NewRetryingClient(fake, 5)
	_, err := c.Embed(context.Background(), "hello")

	require.Error(t, err)
	require.Equal(t, 1, attempts, "validation errors must not be retried")
}

func TestRetryingClient_Dimensions(t *testing.T) {
	t.Parallel()
	fake := &fakeClient{dims: 1536}
	c := NewRetryingClient(fake, 3)
	require.Equal(t, 1536, c.Dimensions())
}
