// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/avamark/portal-go/internal/model"
)

func upsertStatViaAPI(t *testing.T, h *Handler, date string, views int64) model.TrafficStat {
	t.Helper()
	req := newJSONRequest(t, http.MethodPost, "/api/traffic-stats", map[string]any{
		"date": date, "pageViews": views, "uniqueVisitors": views / 2,
		"bounceRate": 42.5, "sources": map[string]int{"search": int(views)},
	})
	w := executeHandler(h.UpsertTrafficStat, req)
	if w.Code != http.StatusOK {
		t.Fatalf("UpsertTrafficStat status = %d, body %s", w.Code, w.Body.String())
	}
	return unmarshalData[model.TrafficStat](t, w)
}

func TestUpsertTrafficStatEndpoint(t *testing.T) {
	h, _, cleanup := newTestHandler(t)
	defer cleanup()

	first := upsertStatViaAPI(t, h, "2026-08-01", 100)
	second := upsertStatViaAPI(t, h, "2026-08-01", 250)

	if second.ID != first.ID {
		t.Error("same date produced a second row")
	}
	if second.PageViews != 250 {
		t.Errorf("pageViews = %d after upsert, want 250", second.PageViews)
	}
}

func TestUpsertTrafficStatValidation(t *testing.T) {
	h, _, cleanup := newTestHandler(t)
	defer cleanup()

	req := newJSONRequest(t, http.MethodPost, "/api/traffic-stats", map[string]any{
		"date": "2026-08-01", "bounceRate": 140.0,
	})
	if w := executeHandler(h.UpsertTrafficStat, req); w.Code != http.StatusBadRequest {
		t.Errorf("bounce rate over 100 status = %d, want 400", w.Code)
	}

	req = newJSONRequest(t, http.MethodPost, "/api/traffic-stats", map[string]any{
		"date": "08/01/2026",
	})
	if w := executeHandler(h.UpsertTrafficStat, req); w.Code != http.StatusBadRequest {
		t.Errorf("malformed date status = %d, want 400", w.Code)
	}
}

func TestListTrafficStatsRangeEndpoint(t *testing.T) {
	h, _, cleanup := newTestHandler(t)
	defer cleanup()

	for _, d := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
		upsertStatViaAPI(t, h, d, 10)
	}

	w := executeHandler(h.ListTrafficStats,
		newJSONRequest(t, http.MethodGet, "/api/traffic-stats?from=2026-08-02&to=2026-08-03", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	stats, total := unmarshalList[model.TrafficStat](t, w)
	if len(stats) != 2 || total != 2 {
		t.Errorf("range list = %d (total %d), want 2", len(stats), total)
	}

	w = executeHandler(h.ListTrafficStats,
		newJSONRequest(t, http.MethodGet, "/api/traffic-stats?from=bogus", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad from date status = %d, want 400", w.Code)
	}
}

func TestResetTrafficStatsEndpoint(t *testing.T) {
	h, _, cleanup := newTestHandler(t)
	defer cleanup()

	upsertStatViaAPI(t, h, "2026-08-01", 10)
	upsertStatViaAPI(t, h, "2026-08-02", 20)

	w := executeHandler(h.ResetTrafficStats, newJSONRequest(t, http.MethodDelete, "/api/traffic-stats/reset", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := unmarshalData[map[string]int64](t, w)
	if got["deleted"] != 2 {
		t.Errorf("deleted = %d, want 2", got["deleted"])
	}

	w = executeHandler(h.ListTrafficStats, newJSONRequest(t, http.MethodGet, "/api/traffic-stats", nil))
	stats, _ := unmarshalList[model.TrafficStat](t, w)
	if len(stats) != 0 {
		t.Errorf("%d rows remain after reset", len(stats))
	}
}
