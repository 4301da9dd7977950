// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestScoreSpam(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		message string
		spam    bool
	}{
		{
			name:    "ordinary inquiry",
			subject: "Question about your services",
			message: "Hi, I'd like to learn more about your social media packages.",
			spam:    false,
		},
		{
			name:    "keyword stuffed",
			subject: "Congratulations",
			message: "WIN FREE LOTTERY PRIZE NOW",
			spam:    true,
		},
		{
			name:    "single keyword only",
			subject: "",
			message: "We offer a free trial for new customers.",
			spam:    false,
		},
		{
			name:    "link farm",
			subject: "Great deals",
			message: "win free stuff http://a.example http://b.example http://c.example http://d.example",
			spam:    true,
		},
		{
			name:    "empty message",
			subject: "",
			message: "",
			spam:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLikelySpam(tt.subject, tt.message); got != tt.spam {
				t.Errorf("IsLikelySpam(%q, %q) = %v, want %v (score %d)",
					tt.subject, tt.message, got, tt.spam, ScoreSpam(tt.subject, tt.message))
			}
		})
	}
}
