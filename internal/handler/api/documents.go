// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/avamark/portal-go/internal/middleware"
	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/upload"
)

// ListDocuments handles GET /api/documents. Admins see every document;
// clients only their own.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	var (
		docs []model.Document
		err  error
	)
	if caller.IsAdmin() {
		docs, err = h.queries.ListDocuments(ctx)
	} else {
		docs, err = h.queries.ListDocumentsByUser(ctx, caller.ID)
	}
	if err != nil {
		h.logger.Error("listing documents failed", "error", err)
		WriteInternalError(w, "Failed to list documents")
		return
	}
	WriteSuccess(w, docs, &Meta{Total: len(docs)})
}

// CreateDocumentRequest is the JSON document creation body, used when the
// file already lives at a known URL.
type CreateDocumentRequest struct {
	UserID      int64  `json:"userId" validate:"required"`
	Title       string `json:"title" validate:"required,max=300"`
	Description string `json:"description" validate:"max=2000"`
	FileURL     string `json:"fileUrl" validate:"required"`
	FileType    string `json:"fileType"`
	Category    string `json:"category" validate:"max=100"`
}

// CreateDocument handles POST /api/documents (admin). A multipart request
// uploads the file through the upload store; a JSON request references an
// existing URL.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.createDocumentUpload(w, r)
		return
	}

	ctx := r.Context()
	caller := middleware.GetUser(r)

	var req CreateDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}
	if !h.requireDocumentOwner(w, r, req.UserID) {
		return
	}

	doc, err := h.queries.CreateDocument(ctx, store.CreateDocumentParams{
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		FileType:    req.FileType,
		Category:    req.Category,
		UserID:      req.UserID,
		UploadedBy:  caller.ID,
	})
	if err != nil {
		h.logger.Error("document create failed", "error", err)
		WriteInternalError(w, "Failed to create document")
		return
	}
	WriteCreated(w, doc)
}

func (h *Handler) createDocumentUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	if err := r.ParseMultipartForm(upload.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	userID, err := strconv.ParseInt(r.FormValue("userId"), 10, 64)
	if err != nil || userID == 0 {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		WriteBadRequest(w, "Title is required", nil)
		return
	}
	if !h.requireDocumentOwner(w, r, userID) {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "A file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	saved, err := h.uploads.Save(file, header.Filename)
	if err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	doc, err := h.queries.CreateDocument(ctx, store.CreateDocumentParams{
		Title:       title,
		Description: r.FormValue("description"),
		FileURL:     saved.FileURL,
		FileType:    saved.FileType,
		Category:    r.FormValue("category"),
		UserID:      userID,
		UploadedBy:  caller.ID,
	})
	if err != nil {
		h.logger.Error("document create failed", "error", err)
		if delErr := h.uploads.Delete(saved.FileURL); delErr != nil {
			h.logger.Warn("orphaned upload cleanup failed", "error", delErr)
		}
		WriteInternalError(w, "Failed to create document")
		return
	}
	WriteCreated(w, doc)
}

// requireDocumentOwner checks the target user exists, writing a 400 if not.
func (h *Handler) requireDocumentOwner(w http.ResponseWriter, r *http.Request, userID int64) bool {
	if _, err := h.queries.GetUserByID(r.Context(), userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteBadRequest(w, "Document owner does not exist", nil)
			return false
		}
		WriteInternalError(w, "Failed to create document")
		return false
	}
	return true
}

// GetDocument handles GET /api/documents/{id} (owner or admin).
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	doc, ok := requireEntityByID(w, r, "Document", func(id int64) (model.Document, error) {
		return h.queries.GetDocumentByID(ctx, id)
	})
	if !ok {
		return
	}
	if !model.CanAccess(caller, doc.UserID) {
		WriteForbidden(w, "Forbidden")
		return
	}
	WriteSuccess(w, doc, nil)
}

// MarkDocumentRead handles PATCH /api/documents/{id}/mark-as-read. Only the
// owning client may mark a document read; even admins cannot.
func (h *Handler) MarkDocumentRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	doc, ok := requireEntityByID(w, r, "Document", func(id int64) (model.Document, error) {
		return h.queries.GetDocumentByID(ctx, id)
	})
	if !ok {
		return
	}
	if caller.ID != doc.UserID {
		WriteForbidden(w, "Forbidden")
		return
	}

	if err := h.queries.MarkDocumentRead(ctx, doc.ID); err != nil {
		h.logger.Error("document read flag failed", "document_id", doc.ID, "error", err)
		WriteInternalError(w, "Failed to update document")
		return
	}

	updated, err := h.queries.GetDocumentByID(ctx, doc.ID)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve document")
		return
	}
	WriteSuccess(w, updated, nil)
}

// DeleteDocument handles DELETE /api/documents/{id} (admin). The stored file
// is removed alongside the row when it lives in the upload store.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, ok := requireEntityByID(w, r, "Document", func(id int64) (model.Document, error) {
		return h.queries.GetDocumentByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteDocument(ctx, doc.ID); err != nil {
		h.logger.Error("document delete failed", "document_id", doc.ID, "error", err)
		WriteInternalError(w, "Failed to delete document")
		return
	}
	if err := h.uploads.Delete(doc.FileURL); err != nil {
		h.logger.Warn("document file cleanup failed", "document_id", doc.ID, "error", err)
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
