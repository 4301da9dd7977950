// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Document is an owner-scoped file shared with a client. UploadedBy records
// the admin that created it; mark-as-read is restricted to the owning user.
type Document struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"fileUrl"`
	FileType    string    `json:"fileType"`
	Category    string    `json:"category"`
	UserID      int64     `json:"userId"`
	UploadedBy  int64     `json:"uploadedBy"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}
