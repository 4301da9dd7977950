// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache keys for the hot read paths.
const (
	KeyPublicBlogList = "blog:public"
	keySettingPrefix  = "setting:"
)

// Manager wraps a Cache with JSON helpers and the portal's key scheme.
type Manager struct {
	cache Cache
	ttl   time.Duration
}

// NewManager creates a cache manager.
func NewManager(c Cache, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{cache: c, ttl: ttl}
}

// GetJSON loads and decodes a cached value into dst.
// Returns ErrCacheMiss when absent.
func (m *Manager) GetJSON(ctx context.Context, key string, dst any) error {
	data, err := m.cache.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// Corrupt entry: drop it and report a miss.
		_ = m.cache.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// SetJSON encodes and stores a value.
func (m *Manager) SetJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.cache.Set(ctx, key, data, m.ttl)
}

// GetSetting returns a cached setting value, or ErrCacheMiss.
func (m *Manager) GetSetting(ctx context.Context, key string) (string, error) {
	data, err := m.cache.Get(ctx, keySettingPrefix+key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetSetting caches a setting value.
func (m *Manager) SetSetting(ctx context.Context, key, value string) error {
	return m.cache.Set(ctx, keySettingPrefix+key, []byte(value), m.ttl)
}

// InvalidateSetting drops one cached setting.
func (m *Manager) InvalidateSetting(ctx context.Context, key string) {
	_ = m.cache.Delete(ctx, keySettingPrefix+key)
}

// InvalidateBlog drops the public blog listing.
func (m *Manager) InvalidateBlog(ctx context.Context) {
	_ = m.cache.Delete(ctx, KeyPublicBlogList)
}

// Close closes the underlying cache.
func (m *Manager) Close() error {
	return m.cache.Close()
}
