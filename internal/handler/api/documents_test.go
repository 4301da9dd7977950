// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/avamark/portal-go/internal/model"
)

func createDocumentViaAPI(t *testing.T, h *Handler, admin model.User, ownerID int64, title string) model.Document {
	t.Helper()
	req := newJSONRequest(t, http.MethodPost, "/api/documents", map[string]any{
		"userId":  ownerID,
		"title":   title,
		"fileUrl": "/uploads/ext/" + title + ".pdf",
	})
	w := executeHandler(h.CreateDocument, requestWithUser(req, admin))
	if w.Code != http.StatusCreated {
		t.Fatalf("CreateDocument status = %d, body %s", w.Code, w.Body.String())
	}
	return unmarshalData[model.Document](t, w)
}

func TestCreateDocumentUnknownOwner(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	admin := createTestUser(t, q, "admin@example.com", model.RoleAdmin)

	req := newJSONRequest(t, http.MethodPost, "/api/documents", map[string]any{
		"userId": 9999, "title": "Orphan", "fileUrl": "/uploads/x.pdf",
	})
	w := executeHandler(h.CreateDocument, requestWithUser(req, admin))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListDocumentsScopedByRole(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	admin := createTestUser(t, q, "admin@example.com", model.RoleAdmin)
	a := createTestUser(t, q, "a@example.com", model.RoleClient)
	b := createTestUser(t, q, "b@example.com", model.RoleClient)

	createDocumentViaAPI(t, h, admin, a.ID, "contract-a")
	createDocumentViaAPI(t, h, admin, b.ID, "contract-b")

	w := executeHandler(h.ListDocuments, requestWithUser(newJSONRequest(t, http.MethodGet, "/api/documents", nil), admin))
	all, _ := unmarshalList[model.Document](t, w)
	if len(all) != 2 {
		t.Errorf("admin sees %d documents, want 2", len(all))
	}

	w = executeHandler(h.ListDocuments, requestWithUser(newJSONRequest(t, http.MethodGet, "/api/documents", nil), a))
	mine, _ := unmarshalList[model.Document](t, w)
	if len(mine) != 1 || mine[0].UserID != a.ID {
		t.Errorf("client list = %+v, want only own documents", mine)
	}
}

func TestGetDocumentOwnership(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	admin := createTestUser(t, q, "admin@example.com", model.RoleAdmin)
	owner := createTestUser(t, q, "owner@example.com", model.RoleClient)
	other := createTestUser(t, q, "other@example.com", model.RoleClient)
	doc := createDocumentViaAPI(t, h, admin, owner.ID, "private")

	run := func(caller model.User) int {
		req := newJSONRequest(t, http.MethodGet, "/api/documents/1", nil)
		req = requestWithURLParams(requestWithUser(req, caller), map[string]string{
			"id": formatID(doc.ID),
		})
		return executeHandler(h.GetDocument, req).Code
	}

	if code := run(owner); code != http.StatusOK {
		t.Errorf("owner read status = %d, want 200", code)
	}
	if code := run(admin); code != http.StatusOK {
		t.Errorf("admin read status = %d, want 200", code)
	}
	if code := run(other); code != http.StatusForbidden {
		t.Errorf("cross-client read status = %d, want 403", code)
	}
}

// The read receipt belongs to the owning client alone: an admin marking a
// client's document read would falsify it.
func TestMarkDocumentReadOwnerOnly(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	admin := createTestUser(t, q, "admin@example.com", model.RoleAdmin)
	owner := createTestUser(t, q, "owner@example.com", model.RoleClient)
	doc := createDocumentViaAPI(t, h, admin, owner.ID, "receipt")

	run := func(caller model.User) int {
		req := newJSONRequest(t, http.MethodPatch, "/api/documents/1/mark-as-read", nil)
		req = requestWithURLParams(requestWithUser(req, caller), map[string]string{
			"id": formatID(doc.ID),
		})
		return executeHandler(h.MarkDocumentRead, req).Code
	}

	if code := run(admin); code != http.StatusForbidden {
		t.Errorf("admin mark-as-read status = %d, want 403", code)
	}
	if code := run(owner); code != http.StatusOK {
		t.Errorf("owner mark-as-read status = %d, want 200", code)
	}

	got, err := q.GetDocumentByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsRead {
		t.Error("read flag not set after owner request")
	}
}

func TestDeleteDocument(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	admin := createTestUser(t, q, "admin@example.com", model.RoleAdmin)
	owner := createTestUser(t, q, "owner@example.com", model.RoleClient)
	doc := createDocumentViaAPI(t, h, admin, owner.ID, "ephemeral")

	req := newJSONRequest(t, http.MethodDelete, "/api/documents/1", nil)
	req = requestWithURLParams(requestWithUser(req, admin), map[string]string{
		"id": formatID(doc.ID),
	})
	w := executeHandler(h.DeleteDocument, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	req = newJSONRequest(t, http.MethodGet, "/api/documents/1", nil)
	req = requestWithURLParams(requestWithUser(req, admin), map[string]string{
		"id": formatID(doc.ID),
	})
	w = executeHandler(h.GetDocument, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted document read status = %d, want 404", w.Code)
	}
}
