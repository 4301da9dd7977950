// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/avamark/portal-go/internal/store"
)

func TestUpsertTrafficStatReplacesDate(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	first, err := q.UpsertTrafficStat(ctx, store.UpsertTrafficStatParams{
		Date: day, PageViews: 100, UniqueVisitors: 40,
		Sources: map[string]int{"search": 60, "direct": 40},
	})
	if err != nil {
		t.Fatalf("UpsertTrafficStat: %v", err)
	}

	second, err := q.UpsertTrafficStat(ctx, store.UpsertTrafficStatParams{
		Date: day, PageViews: 150, UniqueVisitors: 55,
		Sources: map[string]int{"search": 90, "direct": 60},
	})
	if err != nil {
		t.Fatalf("second UpsertTrafficStat: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a second row for the same date")
	}
	if second.PageViews != 150 {
		t.Errorf("pageViews = %d after upsert, want 150", second.PageViews)
	}
	if second.Sources["search"] != 90 {
		t.Errorf("sources did not round-trip: %v", second.Sources)
	}

	stats, err := q.ListTrafficStats(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 {
		t.Errorf("%d rows for one date, want 1", len(stats))
	}
}

func TestListTrafficStatsRange(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	for d := 1; d <= 5; d++ {
		_, err := q.UpsertTrafficStat(ctx, store.UpsertTrafficStatParams{
			Date: time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC), PageViews: int64(d),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	from := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
	stats, err := q.ListTrafficStats(ctx, &from, &to)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 3 {
		t.Errorf("range query returned %d rows, want 3", len(stats))
	}
}

func TestResetTrafficStats(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	for d := 1; d <= 3; d++ {
		_, err := q.UpsertTrafficStat(ctx, store.UpsertTrafficStatParams{
			Date: time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC), PageViews: 1,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	n, err := q.ResetTrafficStats(ctx)
	if err != nil {
		t.Fatalf("ResetTrafficStats: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted %d rows, want 3", n)
	}
	stats, err := q.ListTrafficStats(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 0 {
		t.Errorf("%d rows remain after reset", len(stats))
	}
}

func TestRollupVisitsSkipsBots(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	visits := []store.CreateVisitParams{
		{Path: "/blog/launch", Source: "search", VisitorID: "v1"},
		{Path: "/blog/launch", Source: "search", VisitorID: "v1"},
		{Path: "/", Source: "direct", VisitorID: "v2"},
		{Path: "/", Source: "direct", VisitorID: "bot", IsBot: true},
	}
	for _, v := range visits {
		if err := q.CreateVisit(ctx, v); err != nil {
			t.Fatalf("CreateVisit: %v", err)
		}
	}

	now := time.Now().UTC()
	rollup, err := q.RollupVisits(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("RollupVisits: %v", err)
	}
	if rollup.PageViews != 3 {
		t.Errorf("pageViews = %d, want 3 (bots excluded)", rollup.PageViews)
	}
	if rollup.UniqueVisitors != 2 {
		t.Errorf("uniqueVisitors = %d, want 2", rollup.UniqueVisitors)
	}
	if rollup.Sources["search"] != 2 || rollup.Sources["direct"] != 1 {
		t.Errorf("sources = %v", rollup.Sources)
	}

	deleted, err := q.DeleteVisitsBefore(ctx, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteVisitsBefore: %v", err)
	}
	if deleted != 4 {
		t.Errorf("deleted %d visits, want 4", deleted)
	}
}
