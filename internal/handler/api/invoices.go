// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/avamark/portal-go/internal/middleware"
	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/store"
)

// ListInvoices handles GET /api/invoices (admin).
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.queries.ListInvoices(r.Context())
	if err != nil {
		h.logger.Error("listing invoices failed", "error", err)
		WriteInternalError(w, "Failed to list invoices")
		return
	}
	WriteSuccess(w, invoices, &Meta{Total: len(invoices)})
}

// InvoiceItemRequest mirrors one invoice line item.
type InvoiceItemRequest struct {
	Description string `json:"description" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice   string `json:"unitPrice" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
}

// CreateInvoiceRequest is the invoice creation body. Amount is stored as
// submitted and is not reconciled against the item sum.
type CreateInvoiceRequest struct {
	UserID        int64                `json:"userId" validate:"required"`
	InvoiceNumber string               `json:"invoiceNumber" validate:"required,max=50"`
	Amount        string               `json:"amount" validate:"required"`
	Status        string               `json:"status" validate:"omitempty,oneof=unpaid paid overdue"`
	DueDate       time.Time            `json:"dueDate" validate:"required"`
	Items         []InvoiceItemRequest `json:"items" validate:"dive"`
	Notes         string               `json:"notes"`
}

// CreateInvoice handles POST /api/invoices (admin).
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateInvoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	if _, err := h.queries.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteBadRequest(w, "Invoice owner does not exist", nil)
			return
		}
		WriteInternalError(w, "Failed to create invoice")
		return
	}

	status := model.InvoiceStatusUnpaid
	if req.Status != "" {
		parsed, err := model.ParseInvoiceStatus(req.Status)
		if err != nil {
			WriteBadRequest(w, "Invalid status", nil)
			return
		}
		status = parsed
	}

	items := make([]model.InvoiceItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}

	invoice, err := h.queries.CreateInvoice(ctx, store.CreateInvoiceParams{
		UserID:        req.UserID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		Status:        status,
		DueDate:       req.DueDate,
		Items:         items,
		Notes:         req.Notes,
	})
	if err != nil {
		h.logger.Error("invoice create failed", "error", err)
		WriteInternalError(w, "Failed to create invoice")
		return
	}
	WriteCreated(w, invoice)
}

// GetInvoice handles GET /api/invoices/{id} (owner or admin).
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	invoice, ok := requireEntityByID(w, r, "Invoice", func(id int64) (model.Invoice, error) {
		return h.queries.GetInvoiceByID(ctx, id)
	})
	if !ok {
		return
	}
	if !model.CanAccess(caller, invoice.UserID) {
		WriteForbidden(w, "Forbidden")
		return
	}
	WriteSuccess(w, invoice, nil)
}

// UpdateInvoiceStatusRequest is the status update body.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unpaid paid overdue"`
}

// UpdateInvoiceStatus handles PATCH /api/invoices/{id}/status (admin). Any
// transition between statuses is permitted.
func (h *Handler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invoice, ok := requireEntityByID(w, r, "Invoice", func(id int64) (model.Invoice, error) {
		return h.queries.GetInvoiceByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateInvoiceStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	status, err := model.ParseInvoiceStatus(req.Status)
	if err != nil {
		WriteBadRequest(w, "Invalid status", nil)
		return
	}

	if err := h.queries.UpdateInvoiceStatus(ctx, invoice.ID, status); err != nil {
		h.logger.Error("invoice status update failed", "invoice_id", invoice.ID, "error", err)
		WriteInternalError(w, "Failed to update status")
		return
	}

	updated, err := h.queries.GetInvoiceByID(ctx, invoice.ID)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve invoice")
		return
	}
	WriteSuccess(w, updated, nil)
}

// DeleteInvoice handles DELETE /api/invoices/{id} (admin).
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invoice, ok := requireEntityByID(w, r, "Invoice", func(id int64) (model.Invoice, error) {
		return h.queries.GetInvoiceByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteInvoice(ctx, invoice.ID); err != nil {
		h.logger.Error("invoice delete failed", "invoice_id", invoice.ID, "error", err)
		WriteInternalError(w, "Failed to delete invoice")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// ListUserInvoices handles GET /api/users/{userId}/invoices (owner or admin).
func (h *Handler) ListUserInvoices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	userID, err := parseIDParam(r, "userId")
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}
	if !model.CanAccess(caller, userID) {
		WriteForbidden(w, "Forbidden")
		return
	}

	invoices, err := h.queries.ListInvoicesByUser(ctx, userID)
	if err != nil {
		h.logger.Error("listing user invoices failed", "user_id", userID, "error", err)
		WriteInternalError(w, "Failed to list invoices")
		return
	}
	WriteSuccess(w, invoices, &Meta{Total: len(invoices)})
}
