// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"fmt"
	"time"
)

// PlanStatus is the marketing plan lifecycle state.
type PlanStatus string

// Marketing plan statuses. Any admin-initiated transition between any two
// states is permitted; Share additionally forces draft to active.
const (
	PlanStatusDraft     PlanStatus = "draft"
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
)

// ParsePlanStatus validates a plan status string.
func ParsePlanStatus(s string) (PlanStatus, error) {
	switch PlanStatus(s) {
	case PlanStatusDraft, PlanStatusActive, PlanStatusCompleted:
		return PlanStatus(s), nil
	default:
		return "", fmt.Errorf("invalid plan status %q", s)
	}
}

// MarketingPlan is an owner-scoped plan generated for a client.
// Content holds the generated text; Strategies is a structured list
// persisted as JSON.
type MarketingPlan struct {
	ID             int64          `json:"id"`
	UserID         int64          `json:"userId"`
	Title          string         `json:"title"`
	BusinessType   string         `json:"businessType"`
	GoalsPrimary   string         `json:"goalsPrimary"`
	Audience       string         `json:"audience"`
	Budget         string         `json:"budget"`
	Timeline       string         `json:"timeline"`
	Competitors    string         `json:"competitors"`
	AdditionalInfo string         `json:"additionalInfo"`
	IncludeSocial  bool           `json:"includeSocialMedia"`
	IncludeEmail   bool           `json:"includeEmailMarketing"`
	IncludeContent bool           `json:"includeContentMarketing"`
	IncludePaidAds bool           `json:"includePaidAds"`
	IncludeSEO     bool           `json:"includeSeo"`
	Strategies     []string       `json:"strategies"`
	Content        string         `json:"content"`
	PDFURL         sql.NullString `json:"-"`
	PDFName        sql.NullString `json:"-"`
	Status         PlanStatus     `json:"status"`
	IsShared       bool           `json:"isShared"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Channels returns the human-readable names of the channels toggled on.
func (p *MarketingPlan) Channels() []string {
	var out []string
	if p.IncludeSocial {
		out = append(out, "social media")
	}
	if p.IncludeEmail {
		out = append(out, "email marketing")
	}
	if p.IncludeContent {
		out = append(out, "content marketing")
	}
	if p.IncludePaidAds {
		out = append(out, "paid advertising")
	}
	if p.IncludeSEO {
		out = append(out, "SEO")
	}
	return out
}
