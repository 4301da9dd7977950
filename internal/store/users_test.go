// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/util"
)

func createTestUser(t *testing.T, q *store.Queries, email string, role model.Role) model.User {
	t.Helper()
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: util.NullString("x"),
		Role:         role,
		FirstName:    "Test",
		LastName:     "User",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	created := createTestUser(t, q, "client@example.com", model.RoleClient)

	byID, err := q.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Email != "client@example.com" || byID.Role != model.RoleClient {
		t.Errorf("unexpected user: %+v", byID)
	}

	byEmail, err := q.GetUserByEmail(ctx, "client@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("GetUserByEmail returned id %d, want %d", byEmail.ID, created.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)

	createTestUser(t, q, "dup@example.com", model.RoleClient)
	_, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email: "dup@example.com",
		Role:  model.RoleClient,
	})
	if err == nil {
		t.Fatal("duplicate email insert succeeded")
	}
}

func TestListUsersByRole(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	createTestUser(t, q, "a@example.com", model.RoleAdmin)
	createTestUser(t, q, "b@example.com", model.RoleClient)
	createTestUser(t, q, "c@example.com", model.RoleClient)

	clients, err := q.ListUsersByRole(ctx, model.RoleClient)
	if err != nil {
		t.Fatalf("ListUsersByRole: %v", err)
	}
	if len(clients) != 2 {
		t.Errorf("got %d clients, want 2", len(clients))
	}
	for _, u := range clients {
		if u.Role != model.RoleClient {
			t.Errorf("non-client in client list: %+v", u)
		}
	}
}

func TestUpdateUserRoleAndLastLogin(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	user := createTestUser(t, q, "promote@example.com", model.RoleClient)

	if err := q.UpdateUserRole(ctx, user.ID, model.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	got, err := q.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("role = %s after update, want admin", got.Role)
	}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := q.UpdateUserLastLogin(ctx, user.ID, at); err != nil {
		t.Fatalf("UpdateUserLastLogin: %v", err)
	}
	got, err = q.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.LastLoginAt.Valid {
		t.Error("last_login_at not set")
	}
}

// Deleting a user must also remove every owner-scoped record attached
// to them, in one transaction.
func TestDeleteUserCascades(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	admin := createTestUser(t, q, "admin@example.com", model.RoleAdmin)
	user := createTestUser(t, q, "victim@example.com", model.RoleClient)

	if _, err := q.CreatePlan(ctx, store.CreatePlanParams{
		UserID: user.ID, Title: "Launch plan", BusinessType: "retail",
	}); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if _, err := q.CreateInvoice(ctx, store.CreateInvoiceParams{
		UserID: user.ID, InvoiceNumber: "INV-1", Amount: "100.00",
		DueDate: time.Now().Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if _, err := q.CreateDocument(ctx, store.CreateDocumentParams{
		Title: "Contract", FileURL: "/uploads/x/contract.pdf", FileType: "pdf",
		UserID: user.ID, UploadedBy: admin.ID,
	}); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	if err := store.DeleteUser(ctx, db, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := q.GetUserByID(ctx, user.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("user still present, err = %v", err)
	}
	plans, err := q.ListPlansByUser(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 0 {
		t.Errorf("%d plans survived user deletion", len(plans))
	}
	invoices, err := q.ListInvoicesByUser(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 0 {
		t.Errorf("%d invoices survived user deletion", len(invoices))
	}
	docs, err := q.ListDocumentsByUser(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("%d documents survived user deletion", len(docs))
	}
}

func TestSeedPrimaryAdmin(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	q := store.New(db)
	admin, err := q.GetUserByEmail(ctx, store.DefaultAdminEmail)
	if err != nil {
		t.Fatalf("primary admin missing after seed: %v", err)
	}
	if !admin.IsPrimary || admin.Role != model.RoleAdmin {
		t.Errorf("seeded admin = %+v, want primary admin", admin)
	}

	// Seeding twice must not duplicate the account.
	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	users, err := q.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Errorf("got %d users after double seed, want 1", len(users))
	}
}
