// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/avamark/portal-go/internal/model"
)

const documentColumns = `id, title, description, file_url, file_type, category,
	user_id, uploaded_by, is_read, created_at`

func scanDocument(row interface{ Scan(...any) error }) (model.Document, error) {
	var d model.Document
	var uploadedBy sql.NullInt64
	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.FileURL, &d.FileType,
		&d.Category, &d.UserID, &uploadedBy, &d.IsRead, &d.CreatedAt)
	if err != nil {
		return model.Document{}, err
	}
	d.UploadedBy = uploadedBy.Int64
	return d, nil
}

// CreateDocumentParams holds the fields for sharing a document with a client.
type CreateDocumentParams struct {
	Title       string
	Description string
	FileURL     string
	FileType    string
	Category    string
	UserID      int64
	UploadedBy  int64
}

// CreateDocument inserts a document.
func (q *Queries) CreateDocument(ctx context.Context, arg CreateDocumentParams) (model.Document, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO documents (title, description, file_url, file_type, category,
			user_id, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Description, arg.FileURL, arg.FileType, arg.Category,
		arg.UserID, sql.NullInt64{Int64: arg.UploadedBy, Valid: arg.UploadedBy != 0},
		time.Now().UTC(),
	)
	if err != nil {
		return model.Document{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Document{}, err
	}
	return q.GetDocumentByID(ctx, id)
}

// GetDocumentByID returns a document by id.
func (q *Queries) GetDocumentByID(ctx context.Context, id int64) (model.Document, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// ListDocuments returns all documents.
func (q *Queries) ListDocuments(ctx context.Context) ([]model.Document, error) {
	return q.listDocumentsWhere(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC`)
}

// ListDocumentsByUser returns documents owned by the given user.
func (q *Queries) ListDocumentsByUser(ctx context.Context, userID int64) ([]model.Document, error) {
	return q.listDocumentsWhere(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (q *Queries) listDocumentsWhere(ctx context.Context, query string, args ...any) ([]model.Document, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// MarkDocumentRead sets the read flag. Idempotent.
func (q *Queries) MarkDocumentRead(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `UPDATE documents SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// DeleteDocument removes a document.
func (q *Queries) DeleteDocument(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// DeleteDocumentsByUser removes every document owned by the user. Deleting
// none is not an error.
func (q *Queries) DeleteDocumentsByUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM documents WHERE user_id = ?`, userID)
	return err
}
