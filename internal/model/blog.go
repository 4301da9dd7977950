// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// BlogPost is agency-authored content. Content is markdown; the public detail
// endpoint renders and sanitizes it. The slug is derived from the title and
// regenerated whenever the title changes. Public endpoints return only
// published posts.
type BlogPost struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	CoverImageURL string    `json:"coverImageUrl"`
	AuthorID      int64     `json:"authorId"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
