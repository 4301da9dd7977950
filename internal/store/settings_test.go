// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/avamark/portal-go/internal/store"
)

func TestUpsertSettingReplacesValue(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	first, err := q.UpsertSetting(ctx, store.UpsertSettingParams{
		Key: "site_title", Value: "Avamark", Category: "branding",
	})
	if err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	second, err := q.UpsertSetting(ctx, store.UpsertSettingParams{
		Key: "site_title", Value: "Avamark Digital", Category: "branding",
	})
	if err != nil {
		t.Fatalf("second UpsertSetting: %v", err)
	}
	if second.Value != "Avamark Digital" {
		t.Errorf("value = %q after upsert, want replaced", second.Value)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new row (id %d -> %d)", first.ID, second.ID)
	}

	all, err := q.ListSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("%d rows for one key, want 1", len(all))
	}
}

func TestUpsertSettingDefaultCategory(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)

	s, err := q.UpsertSetting(context.Background(), store.UpsertSettingParams{
		Key: "contact_email", Value: "hello@avamark.example",
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Category != "general" {
		t.Errorf("category = %q, want general default", s.Category)
	}
}

func TestListSettingsByCategory(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	for _, p := range []store.UpsertSettingParams{
		{Key: "site_title", Value: "A", Category: "branding"},
		{Key: "logo_url", Value: "/logo.png", Category: "branding"},
		{Key: "smtp_from", Value: "noreply@avamark.example", Category: "mail"},
	} {
		if _, err := q.UpsertSetting(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	branding, err := q.ListSettingsByCategory(ctx, "branding")
	if err != nil {
		t.Fatal(err)
	}
	if len(branding) != 2 {
		t.Errorf("branding settings = %d, want 2", len(branding))
	}
}

func TestDeleteSetting(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	if _, err := q.UpsertSetting(ctx, store.UpsertSettingParams{Key: "temp", Value: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := q.DeleteSetting(ctx, "temp"); err != nil {
		t.Fatalf("DeleteSetting: %v", err)
	}
	if _, err := q.GetSettingByKey(ctx, "temp"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("deleted setting still resolvable, err = %v", err)
	}
	if err := q.DeleteSetting(ctx, "temp"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("deleting a missing setting returned %v, want sql.ErrNoRows", err)
	}
}
