// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"client", RoleClient, false},
		{"", "", true},
		{"Admin", "", true},
		{"superuser", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCanAccess(t *testing.T) {
	admin := &User{ID: 1, Role: RoleAdmin}
	client := &User{ID: 2, Role: RoleClient}

	tests := []struct {
		name    string
		caller  *User
		ownerID int64
		want    bool
	}{
		{"admin reads anyone", admin, 99, true},
		{"admin reads own", admin, 1, true},
		{"client reads own", client, 2, true},
		{"client reads other", client, 3, false},
		{"nil caller", nil, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccess(tt.caller, tt.ownerID); got != tt.want {
				t.Errorf("CanAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Jamie", "Rivera", "Jamie Rivera"},
		{"Jamie", "", "Jamie"},
		{"", "Rivera", "Rivera"},
		{"", "", ""},
	}
	for _, tt := range tests {
		u := &User{FirstName: tt.first, LastName: tt.last}
		if got := u.FullName(); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestParseStatuses(t *testing.T) {
	if _, err := ParsePlanStatus("draft"); err != nil {
		t.Errorf("ParsePlanStatus(draft) error = %v", err)
	}
	if _, err := ParsePlanStatus("archived"); err == nil {
		t.Error("ParsePlanStatus(archived) expected error")
	}
	if _, err := ParseInvoiceStatus("overdue"); err != nil {
		t.Errorf("ParseInvoiceStatus(overdue) error = %v", err)
	}
	if _, err := ParseInvoiceStatus("void"); err == nil {
		t.Error("ParseInvoiceStatus(void) expected error")
	}
}
