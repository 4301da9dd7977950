// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "./data/portal.db", cfg.DBPath)
	assert.Equal(t, "./uploads", cfg.UploadsDir)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.True(t, cfg.DoSeed)

	assert.False(t, cfg.UseRedisCache())
	assert.False(t, cfg.AIEnabled())
	assert.False(t, cfg.SMTPEnabled())
	assert.False(t, cfg.GeoIPEnabled())

	// Development gets a fallback secret so local runs just work.
	assert.GreaterOrEqual(t, len(cfg.SessionSecret), 32)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORTAL_SERVER_HOST", "0.0.0.0")
	t.Setenv("PORTAL_SERVER_PORT", "9090")
	t.Setenv("PORTAL_ENV", "production")
	t.Setenv("PORTAL_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PORTAL_SESSION_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.ServerAddr())
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.UseRedisCache())
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("PORTAL_SERVER_PORT", "70000")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("missing secret outside development", func(t *testing.T) {
		t.Setenv("PORTAL_ENV", "production")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("PORTAL_SESSION_SECRET", "too-short")
		_, err := Load()
		assert.Error(t, err)
	})
}
