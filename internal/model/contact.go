// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Contact is an inbound inquiry submitted through the public contact form.
// IsSpam and IsRead are independent flags, both false on creation unless the
// spam scorer fires at insert time.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsSpam    bool      `json:"isSpam"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// spamKeywords are scored case-insensitively against subject and message.
var spamKeywords = []string{
	"win free",
	"free money",
	"lottery",
	"prize now",
	"viagra",
	"casino",
	"bitcoin investment",
	"guaranteed income",
	"act now",
	"click here",
	"100% free",
	"earn cash",
}

// spamScoreThreshold is the score at or above which a contact is flagged.
const spamScoreThreshold = 2

// ScoreSpam returns a heuristic spam score for a contact submission.
// Each keyword hit counts once; an excessive link count and an all-caps
// message add to the score.
func ScoreSpam(subject, message string) int {
	text := strings.ToLower(subject + " " + message)

	score := 0
	for _, kw := range spamKeywords {
		if strings.Contains(text, kw) {
			score++
		}
	}

	if strings.Count(text, "http://")+strings.Count(text, "https://") > 3 {
		score++
	}

	// Shouty messages: mostly upper-case letters over a minimum length.
	if len(message) >= 20 {
		upper, letters := 0, 0
		for _, r := range message {
			if r >= 'A' && r <= 'Z' {
				upper++
				letters++
			} else if r >= 'a' && r <= 'z' {
				letters++
			}
		}
		if letters > 0 && upper*10/letters >= 8 {
			score++
		}
	}

	return score
}

// IsLikelySpam reports whether a submission should be flagged at insert time.
// Spam-likely contacts are accepted and flagged, never rejected.
func IsLikelySpam(subject, message string) bool {
	return ScoreSpam(subject, message) >= spamScoreThreshold
}
