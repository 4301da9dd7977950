// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for the client portal.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/avamark/portal-go/internal/auth"
	"github.com/avamark/portal-go/internal/cache"
	"github.com/avamark/portal-go/internal/mailer"
	"github.com/avamark/portal-go/internal/planner"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/upload"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	queries   *store.Queries
	sessions  *scs.SessionManager
	cache     *cache.Manager
	generator planner.Generator
	mail      mailer.Mailer
	resets    *auth.ResetTokens
	uploads   *upload.Store
	logger    *slog.Logger
	baseURL   string
}

// Config collects the dependencies for NewHandler. Generator may be nil when
// AI generation is not configured.
type Config struct {
	DB        *sql.DB
	Sessions  *scs.SessionManager
	Cache     *cache.Manager
	Generator planner.Generator
	Mail      mailer.Mailer
	Resets    *auth.ResetTokens
	Uploads   *upload.Store
	Logger    *slog.Logger
	BaseURL   string
}

// NewHandler creates the API handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		db:        cfg.DB,
		queries:   store.New(cfg.DB),
		sessions:  cfg.Sessions,
		cache:     cfg.Cache,
		generator: cfg.Generator,
		mail:      cfg.Mail,
		resets:    cfg.Resets,
		uploads:   cfg.Uploads,
		logger:    cfg.Logger,
		baseURL:   cfg.BaseURL,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains list metadata.
type Meta struct {
	Total int `json:"total"`
}

// ErrorResponse is the standard API error shape. Message is always present;
// Details carries per-field validation errors when available.
type ErrorResponse struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response wrapping data.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 response wrapping data.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error response with a message.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Message: message})
}

// WriteBadRequest writes a 400 response, optionally with field details.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: message, Details: details})
}

// WriteNotFound writes a 404 response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteUnauthorized writes a 401 response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a 403 response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// WriteInternalError writes a 500 response with a non-leaking message.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// parseIDParam extracts the {id} URL parameter as an int64.
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// entityFetcher fetches an entity by ID.
type entityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses an ID from the URL and fetches the entity,
// writing 400/404/500 responses on failure.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch entityFetcher[T]) (T, bool) {
	var zero T

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, entityName+" not found")
		} else {
			WriteInternalError(w, "Failed to retrieve "+entityName)
		}
		return zero, false
	}
	return entity, true
}

// decodeBody decodes a JSON request body into dst, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}
