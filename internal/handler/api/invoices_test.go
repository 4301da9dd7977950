// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/avamark/portal-go/internal/model"
)

func createInvoiceViaAPI(t *testing.T, h *Handler, userID int64, number, amount string) model.Invoice {
	t.Helper()
	req := newJSONRequest(t, http.MethodPost, "/api/invoices", map[string]any{
		"userId":        userID,
		"invoiceNumber": number,
		"amount":        amount,
		"dueDate":       time.Now().Add(14 * 24 * time.Hour).UTC().Format(time.RFC3339),
		"items": []map[string]any{
			{"description": "Monthly retainer", "quantity": 1, "unitPrice": amount, "amount": amount},
		},
	})
	w := executeHandler(h.CreateInvoice, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("CreateInvoice status = %d, body %s", w.Code, w.Body.String())
	}
	return unmarshalData[model.Invoice](t, w)
}

func TestCreateInvoiceAmountAsSubmitted(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	client := createTestUser(t, q, "inv@example.com", model.RoleClient)
	invoice := createInvoiceViaAPI(t, h, client.ID, "INV-2026-001", "999.99")

	if invoice.Amount != "999.99" {
		t.Errorf("amount = %q, want stored exactly as submitted", invoice.Amount)
	}
	if invoice.Status != model.InvoiceStatusUnpaid {
		t.Errorf("default status = %s, want unpaid", invoice.Status)
	}
	if len(invoice.Items) != 1 {
		t.Errorf("items = %+v", invoice.Items)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	client := createTestUser(t, q, "val@example.com", model.RoleClient)

	req := newJSONRequest(t, http.MethodPost, "/api/invoices", map[string]any{
		"userId": client.ID,
	})
	w := executeHandler(h.CreateInvoice, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := unmarshalError(t, w)
	for _, field := range []string{"invoiceNumber", "amount", "dueDate"} {
		if resp.Details[field] == "" {
			t.Errorf("missing detail for %s: %+v", field, resp.Details)
		}
	}
}

func TestCreateInvoiceUnknownOwner(t *testing.T) {
	h, _, cleanup := newTestHandler(t)
	defer cleanup()

	req := newJSONRequest(t, http.MethodPost, "/api/invoices", map[string]any{
		"userId": 9999, "invoiceNumber": "X-1", "amount": "10.00",
		"dueDate": time.Now().UTC().Format(time.RFC3339),
	})
	w := executeHandler(h.CreateInvoice, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetInvoiceOwnership(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	admin := createTestUser(t, q, "admin@example.com", model.RoleAdmin)
	owner := createTestUser(t, q, "owner@example.com", model.RoleClient)
	other := createTestUser(t, q, "other@example.com", model.RoleClient)
	invoice := createInvoiceViaAPI(t, h, owner.ID, "INV-OWN", "50.00")

	run := func(caller model.User) int {
		req := newJSONRequest(t, http.MethodGet, "/api/invoices/1", nil)
		req = requestWithURLParams(requestWithUser(req, caller), map[string]string{
			"id": formatID(invoice.ID),
		})
		return executeHandler(h.GetInvoice, req).Code
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

func TestUpdateInvoiceStatusEndpoint(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	client := createTestUser(t, q, "pay@example.com", model.RoleClient)
	invoice := createInvoiceViaAPI(t, h, client.ID, "INV-PAY", "25.00")

	req := newJSONRequest(t, http.MethodPatch, "/api/invoices/1/status", map[string]string{
		"status": "void",
	})
	req = requestWithURLParams(req, map[string]string{"id": formatID(invoice.ID)})
	w := executeHandler(h.UpdateInvoiceStatus, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status code = %d, want 400", w.Code)
	}

	req = newJSONRequest(t, http.MethodPatch, "/api/invoices/1/status", map[string]string{
		"status": "paid",
	})
	req = requestWithURLParams(req, map[string]string{"id": formatID(invoice.ID)})
	w = executeHandler(h.UpdateInvoiceStatus, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status update code = %d, body %s", w.Code, w.Body.String())
	}
	got := unmarshalData[model.Invoice](t, w)
	if got.Status != model.InvoiceStatusPaid {
		t.Errorf("invoice status = %s, want paid", got.Status)
	}
}

func TestListUserInvoicesOwnership(t *testing.T) {
	h, q, cleanup := newTestHandler(t)
	defer cleanup()

	owner := createTestUser(t, q, "mine@example.com", model.RoleClient)
	other := createTestUser(t, q, "theirs@example.com", model.RoleClient)
	createInvoiceViaAPI(t, h, owner.ID, "INV-A", "10.00")
	createInvoiceViaAPI(t, h, owner.ID, "INV-B", "20.00")

	req := newJSONRequest(t, http.MethodGet, "/api/users/1/invoices", nil)
	req = requestWithURLParams(requestWithUser(req, owner), map[string]string{
		"userId": formatID(owner.ID),
	})
	w := executeHandler(h.ListUserInvoices, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	invoices, total := unmarshalList[model.Invoice](t, w)
	if len(invoices) != 2 || total != 2 {
		t.Errorf("got %d invoices (total %d), want 2", len(invoices), total)
	}

	req = newJSONRequest(t, http.MethodGet, "/api/users/1/invoices", nil)
	req = requestWithURLParams(requestWithUser(req, other), map[string]string{
		"userId": formatID(owner.ID),
	})
	w = executeHandler(h.ListUserInvoices, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("cross-client list status = %d, want 403", w.Code)
	}
}
