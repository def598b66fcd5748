// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rhyme

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Fetcher computes a rhyme set for a word. Client implements it; tests
// substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, word string) (map[string]struct{}, error)
}

// Observer receives cache events for metrics. All methods may be called
// concurrently and must not block.
type Observer interface {
	// RhymeLookup is called once per GetOrCompute with "hit", "miss",
	// or "error".
	RhymeLookup(result string)

	// EmptyRhymeSet is called when a fetch succeeds but returns no
	// rhymes for the word. The empty set is still cached.
	EmptyRhymeSet(word string)
}

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Errors    int64
	EmptySets int64
}

// Cache is a process-lifetime word-to-rhyme-set memo.
//
// Entries are populated lazily on first lookup, written at most once per
// distinct word, and never evicted or invalidated. Rhyme sets populated
// by one request are visible to all concurrent and later requests.
//
// Thread Safety: safe for concurrent use. Singleflight ensures at most
// one in-flight fetch per distinct word, so concurrent lookups of the
// same uncached word produce a single upstream call.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]map[string]struct{}
	flight   singleflight.Group
	fetcher  Fetcher
	observer Observer

	hits      int64
	misses    int64
	errors    int64
	emptySets int64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithObserver attaches a metrics observer to the cache.
func WithObserver(obs Observer) CacheOption {
	return func(c *Cache) { c.observer = obs }
}

// NewCache creates a Cache backed by fetcher.
func NewCache(fetcher Fetcher, opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]map[string]struct{}),
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize maps spelling variants of a word to one cache key. Corpus
// text sometimes elides a vowel with an apostrophe ("lov'd"), so the
// apostrophe is restored to an e before lookup and storage.
func Normalize(word string) string {
	return strings.ReplaceAll(word, "'", "e")
}

// GetOrCompute returns the rhyme set for word, fetching and caching it on
// first use.
//
// The word is normalized before both lookup and storage, so variants
// share one entry. An empty fetched set is logged for diagnostics but
// still cached, so a genuinely rhyme-less word never re-queries the
// source. A failed fetch is never cached and the error is returned
// unchanged for errors.Is checks against ErrUnavailable.
//
// The returned set is a copy; callers may mutate it freely.
func (c *Cache) GetOrCompute(ctx context.Context, word string) (map[string]struct{}, error) {
	key := Normalize(word)

	c.mu.RLock()
	set, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		atomic.AddInt64(&c.hits, 1)
		c.observe("hit")
		return copySet(set), nil
	}

	atomic.AddInt64(&c.misses, 1)
	c.observe("miss")

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		// A previous flight may have committed between the read above
		// and this call.
		c.mu.RLock()
		if set, ok := c.entries[key]; ok {
			c.mu.RUnlock()
			return set, nil
		}
		c.mu.RUnlock()

		fetched, err := c.fetcher.Fetch(ctx, key)
		if err != nil {
			return nil, err
		}

		if len(fetched) == 0 {
			slog.Info("No rhymes were found for word", "word", key)
			atomic.AddInt64(&c.emptySets, 1)
			if c.observer != nil {
				c.observer.EmptyRhymeSet(key)
			}
		}

		c.mu.Lock()
		c.entries[key] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		atomic.AddInt64(&c.errors, 1)
		c.observe("error")
		return nil, err
	}

	return copySet(v.(map[string]struct{})), nil
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Entries:   entries,
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Errors:    atomic.LoadInt64(&c.errors),
		EmptySets: atomic.LoadInt64(&c.emptySets),
	}
}

func (c *Cache) observe(result string) {
	if c.observer != nil {
		c.observer.RhymeLookup(result)
	}
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for w := range set {
		out[w] = struct{}{}
	}
	return out
}
