// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a process-local cache with TTL expiry and a soft entry cap.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	maxEntries int
	closed     bool
	stop       chan struct{}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a memory cache. maxEntries <= 0 means unbounded.
func NewMemoryCache(defaultTTL time.Duration, maxEntries int) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	mc := &MemoryCache{
		entries:    make(map[string]memoryEntry),
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}
	go mc.janitor()
	return mc
}

// Get implements Cache.
func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.closed {
		return nil, ErrCacheClosed
	}
	entry, ok := mc.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set implements Cache.
func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = mc.defaultTTL
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.closed {
		return ErrCacheClosed
	}

	// Over the cap: drop expired entries first, then fall back to dropping
	// an arbitrary entry so writes never fail.
	if mc.maxEntries > 0 && len(mc.entries) >= mc.maxEntries {
		now := time.Now()
		for k, e := range mc.entries {
			if now.After(e.expiresAt) {
				delete(mc.entries, k)
			}
		}
		if len(mc.entries) >= mc.maxEntries {
			for k := range mc.entries {
				delete(mc.entries, k)
				break
			}
		}
	}

	mc.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete implements Cache.
func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.closed {
		return ErrCacheClosed
	}
	delete(mc.entries, key)
	return nil
}

// Clear implements Cache.
func (mc *MemoryCache) Clear(_ context.Context) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.closed {
		return ErrCacheClosed
	}
	mc.entries = make(map[string]memoryEntry)
	return nil
}

// Close implements Cache.
func (mc *MemoryCache) Close() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.closed {
		return nil
	}
	mc.closed = true
	close(mc.stop)
	mc.entries = nil
	return nil
}

// janitor sweeps expired entries periodically.
func (mc *MemoryCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-mc.stop:
			return
		case <-ticker.C:
			now := time.Now()
			mc.mu.Lock()
			for k, e := range mc.entries {
				if now.After(e.expiresAt) {
					delete(mc.entries, k)
				}
			}
			mc.mu.Unlock()
		}
	}
}
