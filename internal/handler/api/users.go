// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/avamark/portal-go/internal/auth"
	"github.com/avamark/portal-go/internal/middleware"
	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/util"
)

// ListUsers handles GET /api/users (admin).
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("listing users failed", "error", err)
		WriteInternalError(w, "Failed to list users")
		return
	}
	WriteSuccess(w, users, &Meta{Total: len(users)})
}

// ListClients handles GET /api/users/clients (admin).
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsersByRole(r.Context(), model.RoleClient)
	if err != nil {
		h.logger.Error("listing clients failed", "error", err)
		WriteInternalError(w, "Failed to list clients")
		return
	}
	WriteSuccess(w, users, &Meta{Total: len(users)})
}

// UpdateUserRequest is the profile update body. Role and password change
// through their own endpoints; ownership of records never moves here.
type UpdateUserRequest struct {
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	Company         *string `json:"company,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

// UpdateUser handles PATCH /api/users/{id} (owner or admin).
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	target, ok := requireEntityByID(w, r, "User", func(id int64) (model.User, error) {
		return h.queries.GetUserByID(ctx, id)
	})
	if !ok {
		return
	}
	if !model.CanAccess(caller, target.ID) {
		WriteForbidden(w, "Forbidden")
		return
	}

	var req UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	params := store.UpdateUserProfileParams{
		ID:              target.ID,
		Email:           target.Email,
		FirstName:       target.FirstName,
		LastName:        target.LastName,
		Company:         target.Company,
		Phone:           target.Phone,
		ProfileImageURL: target.ProfileImageURL,
	}
	applyIfSet(req.Email, &params.Email)
	applyIfSet(req.FirstName, &params.FirstName)
	applyIfSet(req.LastName, &params.LastName)
	applyIfSet(req.Company, &params.Company)
	applyIfSet(req.Phone, &params.Phone)
	applyIfSet(req.ProfileImageURL, &params.ProfileImageURL)

	updated, err := h.queries.UpdateUserProfile(ctx, params)
	if err != nil {
		h.logger.Error("user update failed", "user_id", target.ID, "error", err)
		WriteInternalError(w, "Failed to update user")
		return
	}
	WriteSuccess(w, updated, nil)
}

// DeleteUser handles DELETE /api/users/{id} (owner or admin). The delete
// cascades to the user's marketing plans, invoices and documents.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	target, ok := requireEntityByID(w, r, "User", func(id int64) (model.User, error) {
		return h.queries.GetUserByID(ctx, id)
	})
	if !ok {
		return
	}
	if !model.CanAccess(caller, target.ID) {
		WriteForbidden(w, "Forbidden")
		return
	}
	if target.IsPrimary {
		WriteForbidden(w, "The primary admin account cannot be deleted")
		return
	}

	if err := store.DeleteUser(ctx, h.db, target.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
			return
		}
		h.logger.Error("user delete failed", "user_id", target.ID, "error", err)
		WriteInternalError(w, "Failed to delete user")
		return
	}

	h.logEvent(r, model.EventLevelInfo, model.EventCategorySystem,
		"user deleted", map[string]any{"user_id": target.ID, "deleted_by": caller.ID})
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// UpdateRoleRequest is the role update body.
type UpdateRoleRequest struct {
	UserID int64  `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=admin client"`
}

// UpdateRole handles POST /api/admin/users/update-role (admin). The primary
// admin account can never leave the admin role, regardless of caller.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		WriteBadRequest(w, "Invalid role", nil)
		return
	}

	target, err := h.queries.GetUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
			return
		}
		WriteInternalError(w, "Failed to retrieve user")
		return
	}
	if target.IsPrimary && role != model.RoleAdmin {
		WriteForbidden(w, "The primary admin account cannot be downgraded")
		return
	}

	if err := h.queries.UpdateUserRole(ctx, target.ID, role); err != nil {
		h.logger.Error("role update failed", "user_id", target.ID, "error", err)
		WriteInternalError(w, "Failed to update role")
		return
	}

	updated, err := h.queries.GetUserByID(ctx, target.ID)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve user")
		return
	}
	WriteSuccess(w, updated, nil)
}

// CreateClientRequest is the client provisioning body.
type CreateClientRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
}

// CreateClient handles POST /api/admin/create-client (admin).
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateClientRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	if _, err := h.queries.GetUserByEmail(ctx, req.Email); err == nil {
		WriteBadRequest(w, "A user with that email already exists", nil)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		WriteInternalError(w, "Failed to create client")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		WriteInternalError(w, "Failed to create client")
		return
	}

	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        req.Email,
		PasswordHash: util.NullString(hash),
		Role:         model.RoleClient,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
		Phone:        req.Phone,
	})
	if err != nil {
		h.logger.Error("client create failed", "error", err)
		WriteInternalError(w, "Failed to create client")
		return
	}
	WriteCreated(w, user)
}

func applyIfSet(src *string, dst *string) {
	if src != nil {
		*dst = *src
	}
}
