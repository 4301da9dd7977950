// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/avamark/portal-go/internal/config"
	"github.com/avamark/portal-go/internal/handler/api"
	"github.com/avamark/portal-go/internal/middleware"
	"github.com/avamark/portal-go/internal/tracker"
)

// newRouter builds the full route table. Public routes carry visit tracking;
// everything stateful sits behind the session manager and CSRF protection.
func newRouter(cfg *config.Config, db *sql.DB, sm *scs.SessionManager, h *api.Handler, visits *tracker.Tracker) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(sm.LoadAndSave)

	devOrigins := []string{
		fmt.Sprintf("localhost:%d", cfg.ServerPort),
		fmt.Sprintf("127.0.0.1:%d", cfg.ServerPort),
	}
	r.Use(middleware.CSRF([]byte(cfg.SessionSecret), cfg.IsDevelopment(), devOrigins...))

	requireAuth := middleware.RequireAuth(sm, db)
	requireAdmin := middleware.RequireAdmin()

	// Serve uploaded files.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadsDir))))

	r.Route("/api", func(r chi.Router) {
		// Public surface.
		r.Get("/health", h.Health)
		r.Post("/auth/login", h.Login)
		r.Post("/password-reset", h.PasswordResetRequest)
		r.Post("/password/reset", h.PasswordResetConfirm)
		r.Get("/password/token-valid", h.PasswordTokenValid)
		r.Get("/settings/{key}", h.GetSetting)

		r.Group(func(r chi.Router) {
			r.Use(visits.Middleware)
			// Resolve the caller when a session exists: unpublished
			// posts stay fetchable for admins.
			r.Use(middleware.ResolveUser(sm, db))
			r.Get("/blog", h.ListBlogPosts)
			r.Get("/blog/{id}", h.GetBlogPost)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(middleware.ContactRateLimit, middleware.ContactRateWindow))
			r.Post("/contacts", h.SubmitContact)
		})

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/user", h.CurrentUser)
			r.Post("/auth/logout", h.Logout)
			r.Post("/auth/change-password", h.ChangePassword)

			r.Patch("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeleteUser)
			r.Get("/users/{userId}/marketing-plans", h.ListUserPlans)
			r.Get("/users/{userId}/invoices", h.ListUserInvoices)

			r.Get("/marketing-plans/{id}", h.GetPlan)
			r.Get("/invoices/{id}", h.GetInvoice)

			r.Get("/documents", h.ListDocuments)
			r.Get("/documents/{id}", h.GetDocument)
			r.Patch("/documents/{id}/mark-as-read", h.MarkDocumentRead)

			// Admin surface.
			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Get("/users", h.ListUsers)
				r.Get("/users/clients", h.ListClients)
				r.Post("/admin/users/update-role", h.UpdateRole)
				r.Post("/admin/create-client", h.CreateClient)
				r.Get("/admin/events", h.ListEvents)
				r.Get("/admin/blog", h.AdminListBlogPosts)

				r.Get("/contacts", h.ListContacts)
				r.Patch("/contacts/{id}/read", h.MarkContactRead)
				r.Patch("/contacts/{id}/spam", h.MarkContactSpam)
				r.Delete("/contacts/{id}", h.DeleteContact)

				r.Get("/marketing-plans", h.ListPlans)
				r.Post("/marketing-plans", h.CreatePlan)
				r.Patch("/marketing-plans/{id}", h.UpdatePlan)
				r.Delete("/marketing-plans/{id}", h.DeletePlan)
				r.Patch("/marketing-plans/{id}/status", h.UpdatePlanStatus)
				r.Post("/marketing-plans/{id}/share", h.SharePlan)

				r.Get("/invoices", h.ListInvoices)
				r.Post("/invoices", h.CreateInvoice)
				r.Patch("/invoices/{id}/status", h.UpdateInvoiceStatus)
				r.Delete("/invoices/{id}", h.DeleteInvoice)

				r.Get("/traffic-stats", h.ListTrafficStats)
				r.Post("/traffic-stats", h.UpsertTrafficStat)
				r.Delete("/traffic-stats/reset", h.ResetTrafficStats)

				r.Post("/settings", h.UpsertSetting)
				r.Get("/settings", h.ListSettings)
				r.Get("/settings/category/{category}", h.ListSettingsByCategory)
				r.Delete("/settings/{key}", h.DeleteSetting)

				r.Post("/blog", h.CreateBlogPost)
				r.Patch("/blog/{id}", h.UpdateBlogPost)
				r.Delete("/blog/{id}", h.DeleteBlogPost)

				r.Post("/documents", h.CreateDocument)
				r.Delete("/documents/{id}", h.DeleteDocument)
			})
		})
	})

	return r
}
