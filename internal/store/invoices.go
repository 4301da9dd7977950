// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avamark/portal-go/internal/model"
)

const invoiceColumns = `id, user_id, invoice_number, amount, status, due_date,
	items, notes, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (model.Invoice, error) {
	var inv model.Invoice
	var items string
	err := row.Scan(&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.Amount,
		&inv.Status, &inv.DueDate, &items, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return model.Invoice{}, err
	}
	if err := json.Unmarshal([]byte(items), &inv.Items); err != nil {
		inv.Items = nil
	}
	return inv, nil
}

func marshalItems(items []model.InvoiceItem) string {
	if items == nil {
		items = []model.InvoiceItem{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

// CreateInvoiceParams holds the fields for creating an invoice. Amount is
// stored as submitted; it is not reconciled against the item sum.
type CreateInvoiceParams struct {
	UserID        int64
	InvoiceNumber string
	Amount        string
	Status        model.InvoiceStatus
	DueDate       time.Time
	Items         []model.InvoiceItem
	Notes         string
}

// CreateInvoice inserts an invoice.
func (q *Queries) CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (model.Invoice, error) {
	if arg.Status == "" {
		arg.Status = model.InvoiceStatusUnpaid
	}
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO invoices (user_id, invoice_number, amount, status, due_date,
			items, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UserID, arg.InvoiceNumber, arg.Amount, arg.Status, arg.DueDate.UTC(),
		marshalItems(arg.Items), arg.Notes, now, now,
	)
	if err != nil {
		return model.Invoice{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Invoice{}, err
	}
	return q.GetInvoiceByID(ctx, id)
}

// GetInvoiceByID returns an invoice by id.
func (q *Queries) GetInvoiceByID(ctx context.Context, id int64) (model.Invoice, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	return scanInvoice(row)
}

// ListInvoices returns all invoices.
func (q *Queries) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	return q.listInvoicesWhere(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
}

// ListInvoicesByUser returns invoices owned by the given user.
func (q *Queries) ListInvoicesByUser(ctx context.Context, userID int64) ([]model.Invoice, error) {
	return q.listInvoicesWhere(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (q *Queries) listInvoicesWhere(ctx context.Context, query string, args ...any) ([]model.Invoice, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateInvoiceStatus sets the invoice status. Any transition is permitted.
func (q *Queries) UpdateInvoiceStatus(ctx context.Context, id int64, status model.InvoiceStatus) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE invoices SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// MarkOverdueInvoices flips unpaid invoices past their due date to overdue.
// Returns the number of invoices transitioned. Used by the daily sweep.
func (q *Queries) MarkOverdueInvoices(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE invoices SET status = ?, updated_at = ? WHERE status = ? AND due_date < ?`,
		model.InvoiceStatusOverdue, now.UTC(), model.InvoiceStatusUnpaid, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteInvoice removes an invoice.
func (q *Queries) DeleteInvoice(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// DeleteInvoicesByUser removes every invoice owned by the user. Deleting
// none is not an error.
func (q *Queries) DeleteInvoicesByUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM invoices WHERE user_id = ?`, userID)
	return err
}
