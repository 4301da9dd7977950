// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/avamark/portal-go/internal/model"
)

const planColumns = `id, user_id, title, business_type, goals_primary, audience,
	budget, timeline, competitors, additional_info,
	include_social, include_email, include_content, include_paid_ads, include_seo,
	strategies, content, pdf_url, pdf_name, status, is_shared, created_at, updated_at`

func scanPlan(row interface{ Scan(...any) error }) (model.MarketingPlan, error) {
	var p model.MarketingPlan
	var strategies string
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.BusinessType, &p.GoalsPrimary, &p.Audience,
		&p.Budget, &p.Timeline, &p.Competitors, &p.AdditionalInfo,
		&p.IncludeSocial, &p.IncludeEmail, &p.IncludeContent, &p.IncludePaidAds, &p.IncludeSEO,
		&strategies, &p.Content, &p.PDFURL, &p.PDFName, &p.Status, &p.IsShared,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return model.MarketingPlan{}, err
	}
	if err := json.Unmarshal([]byte(strategies), &p.Strategies); err != nil {
		p.Strategies = nil
	}
	return p, nil
}

func marshalStrategies(strategies []string) string {
	if strategies == nil {
		strategies = []string{}
	}
	b, _ := json.Marshal(strategies)
	return string(b)
}

// CreatePlanParams holds the fields for creating a marketing plan.
type CreatePlanParams struct {
	UserID         int64
	Title          string
	BusinessType   string
	GoalsPrimary   string
	Audience       string
	Budget         string
	Timeline       string
	Competitors    string
	AdditionalInfo string
	IncludeSocial  bool
	IncludeEmail   bool
	IncludeContent bool
	IncludePaidAds bool
	IncludeSEO     bool
	Strategies     []string
	Content        string
	Status         model.PlanStatus
}

// CreatePlan inserts a marketing plan. Content must already be generated;
// plan creation never persists a row whose generation failed.
func (q *Queries) CreatePlan(ctx context.Context, arg CreatePlanParams) (model.MarketingPlan, error) {
	if arg.Status == "" {
		arg.Status = model.PlanStatusDraft
	}
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO marketing_plans (user_id, title, business_type, goals_primary,
			audience, budget, timeline, competitors, additional_info,
			include_social, include_email, include_content, include_paid_ads, include_seo,
			strategies, content, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UserID, arg.Title, arg.BusinessType, arg.GoalsPrimary,
		arg.Audience, arg.Budget, arg.Timeline, arg.Competitors, arg.AdditionalInfo,
		arg.IncludeSocial, arg.IncludeEmail, arg.IncludeContent, arg.IncludePaidAds, arg.IncludeSEO,
		marshalStrategies(arg.Strategies), arg.Content, arg.Status, now, now,
	)
	if err != nil {
		return model.MarketingPlan{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MarketingPlan{}, err
	}
	return q.GetPlanByID(ctx, id)
}

// GetPlanByID returns a marketing plan by id.
func (q *Queries) GetPlanByID(ctx context.Context, id int64) (model.MarketingPlan, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM marketing_plans WHERE id = ?`, id)
	return scanPlan(row)
}

// ListPlans returns all marketing plans.
func (q *Queries) ListPlans(ctx context.Context) ([]model.MarketingPlan, error) {
	return q.listPlansWhere(ctx, `SELECT `+planColumns+` FROM marketing_plans ORDER BY created_at DESC`)
}

// ListPlansByUser returns marketing plans owned by the given user.
func (q *Queries) ListPlansByUser(ctx context.Context, userID int64) ([]model.MarketingPlan, error) {
	return q.listPlansWhere(ctx,
		`SELECT `+planColumns+` FROM marketing_plans WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (q *Queries) listPlansWhere(ctx context.Context, query string, args ...any) ([]model.MarketingPlan, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []model.MarketingPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// UpdatePlanParams holds the mutable plan fields. UserID is intentionally
// absent: ownership reassignment is not a supported operation.
type UpdatePlanParams struct {
	ID             int64
	Title          string
	BusinessType   string
	GoalsPrimary   string
	Audience       string
	Budget         string
	Timeline       string
	Competitors    string
	AdditionalInfo string
	IncludeSocial  bool
	IncludeEmail   bool
	IncludeContent bool
	IncludePaidAds bool
	IncludeSEO     bool
	Strategies     []string
	Content        string
	PDFURL         sql.NullString
	PDFName        sql.NullString
}

// UpdatePlan updates a plan's content fields and touches updated_at.
func (q *Queries) UpdatePlan(ctx context.Context, arg UpdatePlanParams) (model.MarketingPlan, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE marketing_plans SET title = ?, business_type = ?, goals_primary = ?,
			audience = ?, budget = ?, timeline = ?, competitors = ?, additional_info = ?,
			include_social = ?, include_email = ?, include_content = ?,
			include_paid_ads = ?, include_seo = ?,
			strategies = ?, content = ?, pdf_url = ?, pdf_name = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.BusinessType, arg.GoalsPrimary,
		arg.Audience, arg.Budget, arg.Timeline, arg.Competitors, arg.AdditionalInfo,
		arg.IncludeSocial, arg.IncludeEmail, arg.IncludeContent,
		arg.IncludePaidAds, arg.IncludeSEO,
		marshalStrategies(arg.Strategies), arg.Content, arg.PDFURL, arg.PDFName,
		time.Now().UTC(), arg.ID,
	)
	if err != nil {
		return model.MarketingPlan{}, err
	}
	return q.GetPlanByID(ctx, arg.ID)
}

// UpdatePlanStatus sets the plan status. Any transition is permitted.
func (q *Queries) UpdatePlanStatus(ctx context.Context, id int64, status model.PlanStatus) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE marketing_plans SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// SharePlan marks a plan shared with its client. A draft plan is forced to
// active; active and completed plans keep their status.
func (q *Queries) SharePlan(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE marketing_plans
		SET is_shared = 1,
			status = CASE WHEN status = ? THEN ? ELSE status END,
			updated_at = ?
		WHERE id = ?`,
		model.PlanStatusDraft, model.PlanStatusActive, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// DeletePlan removes a marketing plan.
func (q *Queries) DeletePlan(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM marketing_plans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// DeletePlansByUser removes every plan owned by the user. Deleting none is
// not an error.
func (q *Queries) DeletePlansByUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM marketing_plans WHERE user_id = ?`, userID)
	return err
}
