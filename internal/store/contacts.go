// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/avamark/portal-go/internal/model"
)

const contactColumns = `id, name, email, company, subject, message, is_spam, is_read, created_at`

func scanContact(row interface{ Scan(...any) error }) (model.Contact, error) {
	var c model.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Subject,
		&c.Message, &c.IsSpam, &c.IsRead, &c.CreatedAt)
	return c, err
}

// CreateContactParams holds the fields for a contact submission.
type CreateContactParams struct {
	Name    string
	Email   string
	Company string
	Subject string
	Message string
	IsSpam  bool
}

// CreateContact inserts a contact submission.
func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) (model.Contact, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO contacts (name, email, company, subject, message, is_spam, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Email, arg.Company, arg.Subject, arg.Message, arg.IsSpam, time.Now().UTC(),
	)
	if err != nil {
		return model.Contact{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Contact{}, err
	}
	return q.GetContactByID(ctx, id)
}

// GetContactByID returns a contact by id.
func (q *Queries) GetContactByID(ctx context.Context, id int64) (model.Contact, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	return scanContact(row)
}

// ListContacts returns contacts, optionally filtered by the spam flag.
func (q *Queries) ListContacts(ctx context.Context, spam *bool) ([]model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	var args []any
	if spam != nil {
		query += ` WHERE is_spam = ?`
		args = append(args, *spam)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// MarkContactRead sets the read flag. Idempotent.
func (q *Queries) MarkContactRead(ctx context.Context, id int64) error {
	return q.setContactFlag(ctx, `UPDATE contacts SET is_read = 1 WHERE id = ?`, id)
}

// MarkContactSpam sets the spam flag. Idempotent.
func (q *Queries) MarkContactSpam(ctx context.Context, id int64) error {
	return q.setContactFlag(ctx, `UPDATE contacts SET is_spam = 1 WHERE id = ?`, id)
}

func (q *Queries) setContactFlag(ctx context.Context, stmt string, id int64) error {
	res, err := q.db.ExecContext(ctx, stmt, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// DeleteContact removes a contact.
func (q *Queries) DeleteContact(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
