// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// TrafficStat is one day of site traffic. Sources maps a source bucket
// (direct, search, social, referral, bot) to a visit count and is persisted
// as JSON. Admin-only in every operation.
type TrafficStat struct {
	ID                 int64          `json:"id"`
	Date               time.Time      `json:"date"`
	PageViews          int64          `json:"pageViews"`
	UniqueVisitors     int64          `json:"uniqueVisitors"`
	BounceRate         float64        `json:"bounceRate"`
	AvgSessionDuration float64        `json:"avgSessionDuration"`
	Sources            map[string]int `json:"sources"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// Visit is a single tracked page view, rolled up into TrafficStat rows by the
// scheduler. Country is empty when GeoIP is not configured.
type Visit struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	Source    string    `json:"source"`
	VisitorID string    `json:"visitorId"`
	Country   string    `json:"country"`
	IsBot     bool      `json:"isBot"`
	CreatedAt time.Time `json:"createdAt"`
}
