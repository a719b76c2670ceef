// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// CachingClient wraps a Client with an in-memory LRU cache of embeddings
// keyed by the SHA-256 of the input text. Sync invalidates the whole cache
// at the end of a run, since a changed embedding model or capability text
// can only be detected by the caller.
type CachingClient struct {
	delegate Client

	mu    sync.Mutex
	cap   int
	items map[string]*list.Element
	order *list.List
}

type cacheEntry struct {
	key    string
	vector []float32
}

var _ Client = (*CachingClient)(nil)

// NewCachingClient wraps delegate with an LRU cache holding up to capacity
// embeddings.
func NewCachingClient(delegate Client, capacity int) *CachingClient {
	if capacity <= 0 {
		capacity = 1000
	}
	return &CachingClient{
		delegate: delegate,
		cap:      capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Embed implements Client, serving from cache when possible.
func (c *CachingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	key := hashText(text)
	if v, ok := c.get(key); ok {
		return v, nil
	}

	v, err := c.delegate.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.put(key, v)
	return v, nil
}

// EmbedBatch implements Client, fetching only the cache misses from the
// delegate.
func (c *CachingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int

	for i, t := range texts {
		if v, ok := c.get(hashText(t)); ok {
			out[i] = v
			continue
		}
		missTexts = append(missTexts, t)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	fetched, err := c.delegate.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for i, v := range fetched {
		out[missIdx[i]] = v
		c.put(hashText(missTexts[i]), v)
	}
	return out, nil
}

// Complete implements Client; completions are not cached since classifier
// prompts are rarely repeated verbatim.
func (c *CachingClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.delegate.Complete(ctx, systemPrompt, userPrompt)
}

// Dimensions implements Client.
func (c *CachingClient) Dimensions() int {
	return c.delegate.Dimensions()
}

// Invalidate drops every cached embedding. Called by the sync service once
// a run completes, so a changed embedding model takes effect immediately.
func (c *CachingClient) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.cap)
	c.order = list.New()
}

func (c *CachingClient) get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).vector, true
}

func (c *CachingClient) put(key string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).vector = vector
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{key: key, vector: vector})
	c.items[key] = el

	if c.order.Len() > c.cap {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
