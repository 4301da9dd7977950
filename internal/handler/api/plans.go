// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/avamark/portal-go/internal/middleware"
	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/planner"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/util"
)

// ListPlans handles GET /api/marketing-plans (admin).
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.queries.ListPlans(r.Context())
	if err != nil {
		h.logger.Error("listing plans failed", "error", err)
		WriteInternalError(w, "Failed to list marketing plans")
		return
	}
	WriteSuccess(w, plans, &Meta{Total: len(plans)})
}

// CreatePlanRequest is the plan creation body.
type CreatePlanRequest struct {
	UserID         int64  `json:"userId" validate:"required"`
	Title          string `json:"title" validate:"required,max=300"`
	BusinessType   string `json:"businessType"`
	GoalsPrimary   string `json:"goalsPrimary"`
	Audience       string `json:"audience"`
	Budget         string `json:"budget"`
	Timeline       string `json:"timeline"`
	Competitors    string `json:"competitors"`
	AdditionalInfo string `json:"additionalInfo"`
	IncludeSocial  bool   `json:"includeSocial"`
	IncludeEmail   bool   `json:"includeEmail"`
	IncludeContent bool   `json:"includeContent"`
	IncludePaidAds bool   `json:"includePaidAds"`
	IncludeSEO     bool   `json:"includeSeo"`
}

// CreatePlan handles POST /api/marketing-plans (admin). Plan content is
// generated before anything is persisted; a generation failure leaves no
// partial row behind.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	owner, err := h.queries.GetUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteBadRequest(w, "Plan owner does not exist", nil)
			return
		}
		WriteInternalError(w, "Failed to create marketing plan")
		return
	}

	params := store.CreatePlanParams{
		UserID:         owner.ID,
		Title:          req.Title,
		BusinessType:   req.BusinessType,
		GoalsPrimary:   req.GoalsPrimary,
		Audience:       req.Audience,
		Budget:         req.Budget,
		Timeline:       req.Timeline,
		Competitors:    req.Competitors,
		AdditionalInfo: req.AdditionalInfo,
		IncludeSocial:  req.IncludeSocial,
		IncludeEmail:   req.IncludeEmail,
		IncludeContent: req.IncludeContent,
		IncludePaidAds: req.IncludePaidAds,
		IncludeSEO:     req.IncludeSEO,
		Status:         model.PlanStatusDraft,
	}

	if h.generator != nil {
		toggles := model.MarketingPlan{
			IncludeSocial:  req.IncludeSocial,
			IncludeEmail:   req.IncludeEmail,
			IncludeContent: req.IncludeContent,
			IncludePaidAds: req.IncludePaidAds,
			IncludeSEO:     req.IncludeSEO,
		}
		draft, err := h.generator.Generate(ctx, planner.Request{
			BusinessName: owner.Company,
			Industry:     req.BusinessType,
			Goals:        req.GoalsPrimary,
			Budget:       req.Budget,
			Channels:     toggles.Channels(),
		})
		if err != nil {
			h.logger.Error("plan generation failed", "user_id", owner.ID, "error", err)
			WriteInternalError(w, "Plan generation failed")
			return
		}
		params.Strategies = draft.Strategies
		params.Content = draft.Description
	}

	plan, err := h.queries.CreatePlan(ctx, params)
	if err != nil {
		h.logger.Error("plan create failed", "error", err)
		WriteInternalError(w, "Failed to create marketing plan")
		return
	}
	WriteCreated(w, plan)
}

// GetPlan handles GET /api/marketing-plans/{id} (owner or admin).
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	plan, ok := requireEntityByID(w, r, "Plan", func(id int64) (model.MarketingPlan, error) {
		return h.queries.GetPlanByID(ctx, id)
	})
	if !ok {
		return
	}
	if !model.CanAccess(caller, plan.UserID) {
		WriteForbidden(w, "Forbidden")
		return
	}
	WriteSuccess(w, plan, nil)
}

// UpdatePlanRequest is the plan update body. The owner is not part of it:
// ownership reassignment is not supported.
type UpdatePlanRequest struct {
	Title          *string  `json:"title,omitempty" validate:"omitempty,max=300"`
	BusinessType   *string  `json:"businessType,omitempty"`
	GoalsPrimary   *string  `json:"goalsPrimary,omitempty"`
	Audience       *string  `json:"audience,omitempty"`
	Budget         *string  `json:"budget,omitempty"`
	Timeline       *string  `json:"timeline,omitempty"`
	Competitors    *string  `json:"competitors,omitempty"`
	AdditionalInfo *string  `json:"additionalInfo,omitempty"`
	IncludeSocial  *bool    `json:"includeSocial,omitempty"`
	IncludeEmail   *bool    `json:"includeEmail,omitempty"`
	IncludeContent *bool    `json:"includeContent,omitempty"`
	IncludePaidAds *bool    `json:"includePaidAds,omitempty"`
	IncludeSEO     *bool    `json:"includeSeo,omitempty"`
	Strategies     []string `json:"strategies,omitempty"`
	Content        *string  `json:"content,omitempty"`
	PDFURL         *string  `json:"pdfUrl,omitempty"`
	PDFName        *string  `json:"pdfName,omitempty"`
}

// UpdatePlan handles PATCH /api/marketing-plans/{id} (admin).
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, ok := requireEntityByID(w, r, "Plan", func(id int64) (model.MarketingPlan, error) {
		return h.queries.GetPlanByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	params := store.UpdatePlanParams{
		ID:             plan.ID,
		Title:          plan.Title,
		BusinessType:   plan.BusinessType,
		GoalsPrimary:   plan.GoalsPrimary,
		Audience:       plan.Audience,
		Budget:         plan.Budget,
		Timeline:       plan.Timeline,
		Competitors:    plan.Competitors,
		AdditionalInfo: plan.AdditionalInfo,
		IncludeSocial:  plan.IncludeSocial,
		IncludeEmail:   plan.IncludeEmail,
		IncludeContent: plan.IncludeContent,
		IncludePaidAds: plan.IncludePaidAds,
		IncludeSEO:     plan.IncludeSEO,
		Strategies:     plan.Strategies,
		Content:        plan.Content,
		PDFURL:         plan.PDFURL,
		PDFName:        plan.PDFName,
	}
	applyIfSet(req.Title, &params.Title)
	applyIfSet(req.BusinessType, &params.BusinessType)
	applyIfSet(req.GoalsPrimary, &params.GoalsPrimary)
	applyIfSet(req.Audience, &params.Audience)
	applyIfSet(req.Budget, &params.Budget)
	applyIfSet(req.Timeline, &params.Timeline)
	applyIfSet(req.Competitors, &params.Competitors)
	applyIfSet(req.AdditionalInfo, &params.AdditionalInfo)
	applyIfSet(req.Content, &params.Content)
	applyBoolIfSet(req.IncludeSocial, &params.IncludeSocial)
	applyBoolIfSet(req.IncludeEmail, &params.IncludeEmail)
	applyBoolIfSet(req.IncludeContent, &params.IncludeContent)
	applyBoolIfSet(req.IncludePaidAds, &params.IncludePaidAds)
	applyBoolIfSet(req.IncludeSEO, &params.IncludeSEO)
	if req.Strategies != nil {
		params.Strategies = req.Strategies
	}
	if req.PDFURL != nil {
		params.PDFURL = util.NullString(strings.TrimSpace(*req.PDFURL))
	}
	if req.PDFName != nil {
		params.PDFName = util.NullString(strings.TrimSpace(*req.PDFName))
	}

	updated, err := h.queries.UpdatePlan(ctx, params)
	if err != nil {
		h.logger.Error("plan update failed", "plan_id", plan.ID, "error", err)
		WriteInternalError(w, "Failed to update marketing plan")
		return
	}
	WriteSuccess(w, updated, nil)
}

// UpdatePlanStatusRequest is the status update body.
type UpdatePlanStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active completed"`
}

// UpdatePlanStatus handles PATCH /api/marketing-plans/{id}/status (admin).
// Any transition between statuses is permitted.
func (h *Handler) UpdatePlanStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, ok := requireEntityByID(w, r, "Plan", func(id int64) (model.MarketingPlan, error) {
		return h.queries.GetPlanByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdatePlanStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	status, err := model.ParsePlanStatus(req.Status)
	if err != nil {
		WriteBadRequest(w, "Invalid status", nil)
		return
	}

	if err := h.queries.UpdatePlanStatus(ctx, plan.ID, status); err != nil {
		h.logger.Error("plan status update failed", "plan_id", plan.ID, "error", err)
		WriteInternalError(w, "Failed to update status")
		return
	}

	updated, err := h.queries.GetPlanByID(ctx, plan.ID)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve marketing plan")
		return
	}
	WriteSuccess(w, updated, nil)
}

// SharePlan handles POST /api/marketing-plans/{id}/share (admin). Sharing a
// draft forces it active; active and completed plans keep their status.
func (h *Handler) SharePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, ok := requireEntityByID(w, r, "Plan", func(id int64) (model.MarketingPlan, error) {
		return h.queries.GetPlanByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.SharePlan(ctx, plan.ID); err != nil {
		h.logger.Error("plan share failed", "plan_id", plan.ID, "error", err)
		WriteInternalError(w, "Failed to share marketing plan")
		return
	}

	updated, err := h.queries.GetPlanByID(ctx, plan.ID)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve marketing plan")
		return
	}
	WriteSuccess(w, updated, nil)
}

// DeletePlan handles DELETE /api/marketing-plans/{id} (admin).
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, ok := requireEntityByID(w, r, "Plan", func(id int64) (model.MarketingPlan, error) {
		return h.queries.GetPlanByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeletePlan(ctx, plan.ID); err != nil {
		h.logger.Error("plan delete failed", "plan_id", plan.ID, "error", err)
		WriteInternalError(w, "Failed to delete marketing plan")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// ListUserPlans handles GET /api/users/{userId}/marketing-plans (owner or
// admin).
func (h *Handler) ListUserPlans(w http.ResponseWriter, r *http.Request) {
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

	plans, err := h.queries.ListPlansByUser(ctx, userID)
	if err != nil {
		h.logger.Error("listing user plans failed", "user_id", userID, "error", err)
		WriteInternalError(w, "Failed to list marketing plans")
		return
	}
	WriteSuccess(w, plans, &Meta{Total: len(plans)})
}

func applyBoolIfSet(src *bool, dst *bool) {
	if src != nil {
		*dst = *src
	}
}
