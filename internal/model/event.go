// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event log levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event log categories.
const (
	EventCategoryAuth   = "auth"
	EventCategorySystem = "system"
	EventCategoryAPI    = "api"
)

// Event is an audit log entry. Metadata is a JSON object serialized at write
// time; UserID is null for anonymous events.
type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"-"`
	IP        string        `json:"ip"`
	Metadata  string        `json:"metadata"`
	CreatedAt time.Time     `json:"createdAt"`
}
