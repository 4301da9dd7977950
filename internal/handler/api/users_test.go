// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/util"
)

func createPrimaryAdmin(t *testing.T, q *store.Queries) model.User {
	t.Helper()
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        "primary@example.com",
		PasswordHash: util.NullString("x"),
		Role:         model.RoleAdmin,
		FirstName:    "Primary",
		LastName:     "Admin",
		IsPrimary:    true,
	})
	if err != nil {
		t.Fatalf("creating primary admin: %v", err)
	}
	return user
}

func TestUpdateUserOwnerAndAdmin(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	admin := createTestUser(t, q, "admin@example.com", model.RoleAdmin)
	owner := createTestUser(t, q, "owner@example.com", model.RoleClient)
	other := createTestUser(t, q, "other@example.com", model.RoleClient)

	company := "Acme Co"
	body := map[string]string{"company": company}

	run := func(caller model.User, targetID int64) *int {
		req := newJSONRequest(t, http.MethodPatch, "/api/users/1", body)
		req = requestWithURLParams(requestWithUser(req, caller), map[string]string{
			"id": formatID(targetID),
		})
		w := executeHandler(h.UpdateUser, req)
		return &w.Code
	}

	if code := run(owner, owner.ID); *code != http.StatusOK {
		t.Errorf("owner self-update status = %d, want 200", *code)
	}
	if code := run(admin, owner.ID); *code != http.StatusOK {
		t.Errorf("admin update status = %d, want 200", *code)
	}
	if code := run(other, owner.ID); *code != http.StatusForbidden {
		t.Errorf("cross-client update status = %d, want 403", *code)
	}

	updated, err := q.GetUserByID(context.Background(), owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Company != company {
		t.Errorf("company = %q, patch not applied", updated.Company)
	}
}

func TestUpdateRolePromotesClient(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	client := createTestUser(t, q, "promote@example.com", model.RoleClient)

	req := newJSONRequest(t, http.MethodPost, "/api/admin/users/update-role", map[string]any{
		"userId": client.ID, "role": "admin",
	})
	w := executeHandler(h.UpdateRole, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := unmarshalData[model.User](t, w)
	if got.Role != model.RoleAdmin {
		t.Errorf("role = %s after promotion, want admin", got.Role)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	client := createTestUser(t, q, "badrole@example.com", model.RoleClient)

	req := newJSONRequest(t, http.MethodPost, "/api/admin/users/update-role", map[string]any{
		"userId": client.ID, "role": "superuser",
	})
	w := executeHandler(h.UpdateRole, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPrimaryAdminCannotBeDowngraded(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	primary := createPrimaryAdmin(t, q)

	req := newJSONRequest(t, http.MethodPost, "/api/admin/users/update-role", map[string]any{
		"userId": primary.ID, "role": "client",
	})
	w := executeHandler(h.UpdateRole, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	got, err := q.GetUserByID(context.Background(), primary.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("primary admin role = %s after rejected downgrade", got.Role)
	}
}

func TestPrimaryAdminCannotBeDeleted(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	primary := createPrimaryAdmin(t, q)
	admin := createTestUser(t, q, "second@example.com", model.RoleAdmin)

	req := newJSONRequest(t, http.MethodDelete, "/api/users/1", nil)
	req = requestWithURLParams(requestWithUser(req, admin), map[string]string{
		"id": formatID(primary.ID),
	})
	w := executeHandler(h.DeleteUser, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	if _, err := q.GetUserByID(context.Background(), primary.ID); err != nil {
		t.Errorf("primary admin gone after rejected delete: %v", err)
	}
}

func TestDeleteUserOwnership(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	victim := createTestUser(t, q, "victim@example.com", model.RoleClient)
	other := createTestUser(t, q, "other@example.com", model.RoleClient)

	req := newJSONRequest(t, http.MethodDelete, "/api/users/1", nil)
	req = requestWithURLParams(requestWithUser(req, other), map[string]string{
		"id": formatID(victim.ID),
	})
	w := executeHandler(h.DeleteUser, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("cross-client delete status = %d, want 403", w.Code)
	}
}

func TestCreateClient(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	body := map[string]string{
		"email": "new-client@example.com", "password": "client-pass-123",
		"firstName": "New", "lastName": "Client", "company": "Widgets Inc",
	}
	req := newJSONRequest(t, http.MethodPost, "/api/admin/create-client", body)
	w := executeHandler(h.CreateClient, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := unmarshalData[model.User](t, w)
	if got.Role != model.RoleClient {
		t.Errorf("provisioned role = %s, want client", got.Role)
	}

	// Duplicate email is rejected before hashing.
	w = executeHandler(h.CreateClient, newJSONRequest(t, http.MethodPost, "/api/admin/create-client", body))
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate email status = %d, want 400", w.Code)
	}

	if _, err := q.GetUserByEmail(context.Background(), "new-client@example.com"); err != nil {
		t.Errorf("provisioned client missing: %v", err)
	}
}

func TestListClients(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	createTestUser(t, q, "a@example.com", model.RoleAdmin)
	createTestUser(t, q, "c1@example.com", model.RoleClient)
	createTestUser(t, q, "c2@example.com", model.RoleClient)

	w := executeHandler(h.ListClients, newJSONRequest(t, http.MethodGet, "/api/users/clients", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	clients, total := unmarshalList[model.User](t, w)
	if len(clients) != 2 || total != 2 {
		t.Errorf("got %d clients (total %d), want 2", len(clients), total)
	}
}
