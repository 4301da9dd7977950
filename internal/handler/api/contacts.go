// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/store"
)

// SubmitContactRequest is the public contact form body.
type SubmitContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company" validate:"max=200"`
	Subject string `json:"subject" validate:"max=300"`
	Message string `json:"message" validate:"required,max=5000"`
}

// SubmitContact handles POST /api/contacts (public, rate-limited). Spam
// scoring flags suspicious submissions but never rejects them.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SubmitContactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	contact, err := h.queries.CreateContact(ctx, store.CreateContactParams{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Subject: req.Subject,
		Message: req.Message,
		IsSpam:  model.IsLikelySpam(req.Subject, req.Message),
	})
	if err != nil {
		h.logger.Error("contact create failed", "error", err)
		WriteInternalError(w, "Failed to submit contact")
		return
	}
	WriteCreated(w, contact)
}

// ListContacts handles GET /api/contacts (admin), with optional ?spam=.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	var spam *bool
	if v := r.URL.Query().Get("spam"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			WriteBadRequest(w, "Invalid spam filter", nil)
			return
		}
		spam = &parsed
	}

	contacts, err := h.queries.ListContacts(r.Context(), spam)
	if err != nil {
		h.logger.Error("listing contacts failed", "error", err)
		WriteInternalError(w, "Failed to list contacts")
		return
	}
	WriteSuccess(w, contacts, &Meta{Total: len(contacts)})
}

// MarkContactRead handles PATCH /api/contacts/{id}/read (admin). Idempotent.
func (h *Handler) MarkContactRead(w http.ResponseWriter, r *http.Request) {
	h.setContactFlag(w, r, h.queries.MarkContactRead)
}

// MarkContactSpam handles PATCH /api/contacts/{id}/spam (admin). Idempotent.
func (h *Handler) MarkContactSpam(w http.ResponseWriter, r *http.Request) {
	h.setContactFlag(w, r, h.queries.MarkContactSpam)
}

func (h *Handler) setContactFlag(w http.ResponseWriter, r *http.Request, flip func(ctx context.Context, id int64) error) {
	ctx := r.Context()

	contact, ok := requireEntityByID(w, r, "Contact", func(id int64) (model.Contact, error) {
		return h.queries.GetContactByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := flip(ctx, contact.ID); err != nil {
		h.logger.Error("contact flag update failed", "contact_id", contact.ID, "error", err)
		WriteInternalError(w, "Failed to update contact")
		return
	}

	updated, err := h.queries.GetContactByID(ctx, contact.ID)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve contact")
		return
	}
	WriteSuccess(w, updated, nil)
}

// DeleteContact handles DELETE /api/contacts/{id} (admin).
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contact, ok := requireEntityByID(w, r, "Contact", func(id int64) (model.Contact, error) {
		return h.queries.GetContactByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteContact(ctx, contact.ID); err != nil {
		h.logger.Error("contact delete failed", "contact_id", contact.ID, "error", err)
		WriteInternalError(w, "Failed to delete contact")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
