// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avamark/portal-go/internal/auth"
	"github.com/avamark/portal-go/internal/cache"
	"github.com/avamark/portal-go/internal/mailer"
	"github.com/avamark/portal-go/internal/middleware"
	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/session"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/testutil"
	"github.com/avamark/portal-go/internal/upload"
	"github.com/avamark/portal-go/internal/util"
)

const testPassword = "test-password-123"

// newTestHandler builds a Handler backed by a temporary database, an
// in-memory cache and a logging mailer.
func newTestHandler(t *testing.T) (*Handler, *store.Queries, func()) {
	t.Helper()

	db, dbCleanup := testutil.TestDB(t)
	logger := testutil.TestLogger()

	h := NewHandler(Config{
		DB:       db,
		Sessions: session.New(db, true),
		Cache:    cache.NewManager(cache.NewMemoryCache(time.Minute, 128), time.Minute),
		Mail:     mailer.NewLogMailer(logger),
		Resets:   auth.NewResetTokens(auth.DefaultResetTokenTTL),
		Uploads:  upload.NewStore(t.TempDir(), "/uploads"),
		Logger:   logger,
		BaseURL:  "http://portal.test",
	})

	return h, store.New(db), dbCleanup
}

// createTestUser inserts a user with the shared test password.
func createTestUser(t *testing.T, q *store.Queries, email string, role model.Role) model.User {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: util.NullString(hash),
		Role:         role,
		FirstName:    "Test",
		LastName:     "User",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return user
}

// newJSONRequest creates a request with a JSON-encoded body.
func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithUser attaches an authenticated user to the request context the
// way RequireAuth does.
func requestWithUser(r *http.Request, user model.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, user)
	return r.WithContext(ctx)
}

// requestWithURLParams injects chi URL parameters into the request context.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// formatID renders an entity ID as a URL parameter value.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// executeHandler runs a handler func against a recorder.
func executeHandler(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

// executeWithSession runs a handler under the session manager's LoadAndSave
// wrapper, for handlers that read or write session state.
func executeWithSession(h *Handler, handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.sessions.LoadAndSave(handler).ServeHTTP(w, r)
	return w
}

// unmarshalData decodes the data field of a wrapped response into T.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return resp.Data
}

// unmarshalList decodes a wrapped list response into its data slice and total.
func unmarshalList[T any](t *testing.T, w *httptest.ResponseRecorder) ([]T, int) {
	t.Helper()

	var resp struct {
		Data []T  `json:"data"`
		Meta Meta `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return resp.Data, resp.Meta.Total
}

// unmarshalError decodes an error response.
func unmarshalError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response %q: %v", w.Body.String(), err)
	}
	return resp
}
