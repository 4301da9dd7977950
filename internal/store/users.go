// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/util"
)

const userColumns = `id, email, password_hash, role, first_name, last_name,
	company, phone, profile_image_url, is_primary, created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName,
		&u.Company, &u.Phone, &u.ProfileImageURL, &u.IsPrimary,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	return u, err
}

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Email           string
	PasswordHash    sql.NullString
	Role            model.Role
	FirstName       string
	LastName        string
	Company         string
	Phone           string
	ProfileImageURL string
	IsPrimary       bool
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, role, first_name, last_name,
			company, phone, profile_image_url, is_primary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Email, arg.PasswordHash, arg.Role, arg.FirstName, arg.LastName,
		arg.Company, arg.Phone, arg.ProfileImageURL, arg.IsPrimary, now, now,
	)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns the user with the given email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsers returns all users ordered by creation time.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	return q.listUsersWhere(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
}

// ListUsersByRole returns users with the given role.
func (q *Queries) ListUsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return q.listUsersWhere(ctx, `SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY created_at DESC`, role)
}

func (q *Queries) listUsersWhere(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfileParams holds the mutable profile fields. The id, email
// uniqueness and role are handled by dedicated operations; ownership is not
// reassignable through this path.
type UpdateUserProfileParams struct {
	ID              int64
	Email           string
	FirstName       string
	LastName        string
	Company         string
	Phone           string
	ProfileImageURL string
}

// UpdateUserProfile updates profile fields and touches updated_at.
func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (model.User, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE users SET email = ?, first_name = ?, last_name = ?, company = ?,
			phone = ?, profile_image_url = ?, updated_at = ?
		WHERE id = ?`,
		arg.Email, arg.FirstName, arg.LastName, arg.Company,
		arg.Phone, arg.ProfileImageURL, time.Now().UTC(), arg.ID,
	)
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, arg.ID)
}

// UpdateUserPassword replaces the stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// UpdateUserRole changes a user's role. Callers must enforce the primary
// admin protection before reaching this operation.
func (q *Queries) UpdateUserRole(ctx context.Context, id int64, role model.Role) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now().UTC(), id)
	return err
}

// UpdateUserLastLogin records a successful login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`,
		util.NullTime(at), id)
	return err
}

// DeleteUser removes a user and all of their owned records inside one
// transaction: marketing plans, invoices and documents go first, then the
// user row, so no orphaned foreign keys survive.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := New(db).WithTx(tx)
	if err := qtx.DeletePlansByUser(ctx, id); err != nil {
		return fmt.Errorf("cascading user delete: %w", err)
	}
	if err := qtx.DeleteInvoicesByUser(ctx, id); err != nil {
		return fmt.Errorf("cascading user delete: %w", err)
	}
	if err := qtx.DeleteDocumentsByUser(ctx, id); err != nil {
		return fmt.Errorf("cascading user delete: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}
