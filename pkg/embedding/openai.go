// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
)

// OpenAIClient implements Client using the OpenAI embeddings and chat
// completion APIs directly.
type OpenAIClient struct {
	client         oai.Client
	embeddingModel string
	completionModel string
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient builds an OpenAIClient. embeddingModel and completionModel
// default to text-embedding-3-small and gpt-4o-mini when empty.
func NewOpenAIClient(apiKey, embeddingModel, completionModel string, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding: openai api key must not be empty")
	}
	if embeddingModel == "" {
		embeddingModel = oai.EmbeddingModelTextEmbedding3Small
	}
	if completionModel == "" {
		completionModel = oai.ChatModelGPT4oMini
	}

	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIClient{
		client:          oai.NewClient(reqOpts...),
		embeddingModel:  embeddingModel,
		completionModel: completionModel,
	}, nil
}

// Embed implements Client.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, oai.EmbeddingNewParams{
		Model: c.embeddingModel,
		Input: oai.EmbeddingNewParamsInputUnion{OfString: param.NewOpt(text)},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: openai embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding: openai embed: empty response")
	}
	return float64ToFloat32(resp.Data[0].Embedding), nil
}

// EmbedBatch implements Client.
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.client.Embeddings.New(ctx, oai.EmbeddingNewParams{
		Model: c.embeddingModel,
		Input: oai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: openai embed batch: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding: openai embed batch: expected %d vectors, got %d", len(texts), len(resp.Data))
	}

	out := make([][]float32, len(texts))
	for _, e := range resp.Data {
		if int(e.Index) >= len(texts) {
			return nil, fmt.Errorf("embedding: openai embed batch: unexpected index %d", e.Index)
		}
		out[e.Index] = float64ToFloat32(e.Embedding)
	}
	return out, nil
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []oai.ChatCompletionMessageParamUnion{}
	if systemPrompt != "" {
		messages = append(messages, oai.SystemMessage(systemPrompt))
	}
	messages = append(messages, oai.UserMessage(userPrompt))

	resp, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model:    c.completionModel,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("embedding: openai complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("embedding: openai complete: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Dimensions implements Client.
func (c *OpenAIClient) Dimensions() int {
	return modelDimensions(c.embeddingModel)
}

func modelDimensions(model string) int {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "text-embedding-3-large"):
		return 3072
	case strings.Contains(lower, "text-embedding-3-small"):
		return 1536
	case strings.Contains(lower, "text-embedding-ada-002"):
		return 1536
	default:
		return 1536
	}
}

func float64ToFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
