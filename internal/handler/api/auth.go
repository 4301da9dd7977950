// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avamark/portal-go/internal/auth"
	"github.com/avamark/portal-go/internal/middleware"
	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/util"
)

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login. Bad credentials return 401 and leave
// the session untouched, so no cookie is issued.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	user, err := h.queries.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.logger.Error("login lookup failed", "error", err)
		}
		WriteUnauthorized(w, "Invalid email or password")
		return
	}
	if !user.PasswordHash.Valid || !auth.VerifyPassword(req.Password, user.PasswordHash.String) {
		h.logEvent(r, model.EventLevelWarning, model.EventCategoryAuth,
			"failed login attempt", map[string]any{"email": req.Email})
		WriteUnauthorized(w, "Invalid email or password")
		return
	}

	// Upgrade hashes stored with old parameters while the password is in hand.
	if auth.NeedsRehash(user.PasswordHash.String) {
		if hash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(ctx, user.ID, hash); err != nil {
				h.logger.Error("password rehash failed", "user_id", user.ID, "error", err)
			} else {
				h.logger.Info("password rehashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	// Token renewal on privilege change prevents session fixation.
	if err := h.sessions.RenewToken(ctx); err != nil {
		h.logger.Error("session renew failed", "error", err)
		WriteInternalError(w, "Failed to establish session")
		return
	}
	h.sessions.Put(ctx, middleware.SessionKeyUserID, user.ID)

	if err := h.queries.UpdateUserLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		h.logger.Warn("recording last login failed", "user_id", user.ID, "error", err)
	}

	WriteSuccess(w, user, nil)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.logger.Error("session destroy failed", "error", err)
		WriteInternalError(w, "Failed to log out")
		return
	}
	WriteSuccess(w, map[string]string{"status": "logged out"}, nil)
}

// CurrentUser handles GET /api/auth/user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Unauthorized")
		return
	}
	WriteSuccess(w, user, nil)
}

// ChangePasswordRequest is the change-password body.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// ChangePassword handles POST /api/auth/change-password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(r)

	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	if !user.PasswordHash.Valid || !auth.VerifyPassword(req.CurrentPassword, user.PasswordHash.String) {
		WriteUnauthorized(w, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		WriteInternalError(w, "Failed to change password")
		return
	}
	if err := h.queries.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		h.logger.Error("password update failed", "user_id", user.ID, "error", err)
		WriteInternalError(w, "Failed to change password")
		return
	}

	WriteSuccess(w, map[string]string{"status": "password changed"}, nil)
}

// PasswordResetRequestBody is the reset-request body.
type PasswordResetRequestBody struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetRequest handles POST /api/password-reset. The response is
// identical whether or not the email has an account, to avoid enumeration.
func (h *Handler) PasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PasswordResetRequestBody
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	user, err := h.queries.GetUserByEmail(ctx, req.Email)
	if err == nil {
		token := h.resets.Issue(user.ID)
		link := fmt.Sprintf("%s/reset-password?token=%s", h.baseURL, token)
		body := fmt.Sprintf(
			"Hello %s,\n\nA password reset was requested for your account.\n"+
				"Use the link below within 3 hours:\n\n%s\n\n"+
				"If you did not request this, you can ignore this message.\n",
			user.FullName(), link)
		if err := h.mail.Send(user.Email, "Password reset", body); err != nil {
			h.logger.Error("reset mail failed", "user_id", user.ID, "error", err)
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.logger.Error("reset lookup failed", "error", err)
	}

	WriteSuccess(w, map[string]string{
		"status": "If that email has an account, a reset link has been sent",
	}, nil)
}

// PasswordResetConfirmBody is the reset-confirm body.
type PasswordResetConfirmBody struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// PasswordResetConfirm handles POST /api/password/reset. Tokens are single
// use: a second confirm with the same token fails.
func (h *Handler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PasswordResetConfirmBody
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	userID, ok := h.resets.Lookup(req.Token)
	if !ok {
		WriteBadRequest(w, "Invalid or expired reset token", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		WriteInternalError(w, "Failed to reset password")
		return
	}
	if err := h.queries.UpdateUserPassword(ctx, userID, hash); err != nil {
		// The token stays valid so the same link works on retry.
		h.logger.Error("password update failed", "user_id", userID, "error", err)
		WriteInternalError(w, "Failed to reset password")
		return
	}
	h.resets.Consume(req.Token)

	h.logEvent(r, model.EventLevelInfo, model.EventCategoryAuth,
		"password reset completed", map[string]any{"user_id": userID})
	WriteSuccess(w, map[string]string{"status": "password reset"}, nil)
}

// PasswordTokenValid handles GET /api/password/token-valid?token=.
func (h *Handler) PasswordTokenValid(w http.ResponseWriter, r *http.Request) {
	_, ok := h.resets.Lookup(r.URL.Query().Get("token"))
	WriteSuccess(w, map[string]bool{"valid": ok}, nil)
}

// logEvent records an audit event without failing the request. The acting
// user is attached when the request carries one.
func (h *Handler) logEvent(r *http.Request, level, category, message string, metadata map[string]any) {
	var userID int64
	if user := middleware.GetUser(r); user != nil {
		userID = user.ID
	}
	err := h.queries.CreateEvent(r.Context(), store.CreateEventParams{
		Level:    level,
		Category: category,
		Message:  message,
		UserID:   util.NullInt64(userID),
		IP:       middleware.ClientIP(r),
		Metadata: metadata,
	})
	if err != nil {
		h.logger.Warn("event log write failed", "error", err)
	}
}
