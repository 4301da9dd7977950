// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avamark/portal-go/internal/auth"
	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/util"
)

// Default primary admin credentials, intended to be changed on first login.
const (
	DefaultAdminEmail    = "admin@avamark.example"
	DefaultAdminPassword = "changeme"
)

// Seed creates the primary admin account if it does not exist. The primary
// admin is flagged is_primary and can never be role-downgraded.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("primary admin already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for primary admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: util.NullString(passwordHash),
		Role:         model.RoleAdmin,
		FirstName:    "Primary",
		LastName:     "Admin",
		IsPrimary:    true,
	})
	if err != nil {
		return fmt.Errorf("creating primary admin: %w", err)
	}

	slog.Info("created primary admin account",
		"id", user.ID,
		"email", user.Email,
	)

	return nil
}
