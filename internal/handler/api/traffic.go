// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/store"
)

const dateLayout = "2006-01-02"

// ListTrafficStats handles GET /api/traffic-stats (admin), with optional
// ?from= and ?to= date bounds (inclusive, YYYY-MM-DD).
func (h *Handler) ListTrafficStats(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			WriteBadRequest(w, "Invalid from date", nil)
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			WriteBadRequest(w, "Invalid to date", nil)
			return
		}
		to = &t
	}

	stats, err := h.queries.ListTrafficStats(r.Context(), from, to)
	if err != nil {
		h.logger.Error("listing traffic stats failed", "error", err)
		WriteInternalError(w, "Failed to list traffic stats")
		return
	}
	WriteSuccess(w, stats, &Meta{Total: len(stats)})
}

// UpsertTrafficStatRequest is the manual traffic stat body.
type UpsertTrafficStatRequest struct {
	Date               string         `json:"date" validate:"required"`
	PageViews          int64          `json:"pageViews" validate:"min=0"`
	UniqueVisitors     int64          `json:"uniqueVisitors" validate:"min=0"`
	BounceRate         float64        `json:"bounceRate" validate:"min=0,max=100"`
	AvgSessionDuration float64        `json:"avgSessionDuration" validate:"min=0"`
	Sources            map[string]int `json:"sources"`
}

// UpsertTrafficStat handles POST /api/traffic-stats (admin). Writing an
// existing date replaces that day's counters.
func (h *Handler) UpsertTrafficStat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpsertTrafficStatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		WriteBadRequest(w, "Invalid date", nil)
		return
	}

	stat, err := h.queries.UpsertTrafficStat(ctx, store.UpsertTrafficStatParams{
		Date:               date,
		PageViews:          req.PageViews,
		UniqueVisitors:     req.UniqueVisitors,
		BounceRate:         req.BounceRate,
		AvgSessionDuration: req.AvgSessionDuration,
		Sources:            req.Sources,
	})
	if err != nil {
		h.logger.Error("traffic stat upsert failed", "error", err)
		WriteInternalError(w, "Failed to save traffic stat")
		return
	}
	WriteSuccess(w, stat, nil)
}

// ResetTrafficStats handles DELETE /api/traffic-stats/reset (admin).
func (h *Handler) ResetTrafficStats(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.queries.ResetTrafficStats(r.Context())
	if err != nil {
		h.logger.Error("traffic stats reset failed", "error", err)
		WriteInternalError(w, "Failed to reset traffic stats")
		return
	}
	h.logEvent(r, model.EventLevelWarning, model.EventCategorySystem,
		"traffic stats reset", map[string]any{"deleted": deleted})
	WriteSuccess(w, map[string]int64{"deleted": deleted}, nil)
}
