// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the portal
// including User, Invoice, MarketingPlan, and the role/status enumerations.
package model

import (
	"database/sql"
	"fmt"
	"time"
)

// Role is a closed set of user roles. Anything outside RoleAdmin and
// RoleClient is unrepresentable past ParseRole.
type Role string

// User roles.
const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// ParseRole validates a role string against the closed role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleClient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

// User represents a portal account, either an agency admin or a client.
type User struct {
	ID              int64          `json:"id"`
	Email           string         `json:"email"`
	PasswordHash    sql.NullString `json:"-"` // Never expose in JSON
	Role            Role           `json:"role"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	Company         string         `json:"company"`
	Phone           string         `json:"phone"`
	ProfileImageURL string         `json:"profileImageUrl"`
	IsPrimary       bool           `json:"-"` // Seeded primary admin, role is locked
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	LastLoginAt     sql.NullTime   `json:"-"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// CanAccess is the single ownership predicate applied to every owner-scoped
// entity: admins see everything, clients only records carrying their own id.
func CanAccess(caller *User, ownerID int64) bool {
	if caller == nil {
		return false
	}
	return caller.IsAdmin() || caller.ID == ownerID
}
