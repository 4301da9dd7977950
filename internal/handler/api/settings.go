// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avamark/portal-go/internal/store"
)

// ListSettings handles GET /api/settings (admin).
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.ListSettings(r.Context())
	if err != nil {
		h.logger.Error("listing settings failed", "error", err)
		WriteInternalError(w, "Failed to list settings")
		return
	}
	WriteSuccess(w, settings, &Meta{Total: len(settings)})
}

// ListSettingsByCategory handles GET /api/settings/category/{category} (admin).
func (h *Handler) ListSettingsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	settings, err := h.queries.ListSettingsByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("listing settings failed", "category", category, "error", err)
		WriteInternalError(w, "Failed to list settings")
		return
	}
	WriteSuccess(w, settings, &Meta{Total: len(settings)})
}

// GetSetting handles GET /api/settings/{key} (public). Values are cached.
func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")

	if value, err := h.cache.GetSetting(ctx, key); err == nil {
		WriteSuccess(w, map[string]string{"key": key, "value": value}, nil)
		return
	}

	setting, err := h.queries.GetSettingByKey(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Setting not found")
			return
		}
		WriteInternalError(w, "Failed to retrieve setting")
		return
	}

	if err := h.cache.SetSetting(ctx, key, setting.Value); err != nil {
		h.logger.Warn("setting cache write failed", "key", key, "error", err)
	}
	WriteSuccess(w, map[string]string{"key": setting.Key, "value": setting.Value}, nil)
}

// UpsertSettingRequest is the setting upsert body.
type UpsertSettingRequest struct {
	Key         string `json:"key" validate:"required,max=100"`
	Value       string `json:"value"`
	Category    string `json:"category" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpsertSetting handles POST /api/settings (admin). Writing an existing key
// replaces its value; exactly one row per key exists afterwards.
func (h *Handler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpsertSettingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	setting, err := h.queries.UpsertSetting(ctx, store.UpsertSettingParams{
		Key:         req.Key,
		Value:       req.Value,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("setting upsert failed", "key", req.Key, "error", err)
		WriteInternalError(w, "Failed to save setting")
		return
	}

	h.cache.InvalidateSetting(ctx, req.Key)
	WriteSuccess(w, setting, nil)
}

// DeleteSetting handles DELETE /api/settings/{key} (admin).
func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")

	if err := h.queries.DeleteSetting(ctx, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Setting not found")
			return
		}
		h.logger.Error("setting delete failed", "key", key, "error", err)
		WriteInternalError(w, "Failed to delete setting")
		return
	}

	h.cache.InvalidateSetting(ctx, key)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
