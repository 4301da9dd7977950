// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// InvoiceStatus is the invoice payment state.
type InvoiceStatus string

// Invoice statuses. Transitions are admin-only and unordered.
const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// ParseInvoiceStatus validates an invoice status string.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(s) {
	case InvoiceStatusUnpaid, InvoiceStatusPaid, InvoiceStatusOverdue:
		return InvoiceStatus(s), nil
	default:
		return "", fmt.Errorf("invalid invoice status %q", s)
	}
}

// InvoiceItem is one line of an invoice. Amounts are decimal strings; the
// server stores them as submitted and does not reconcile Amount against the
// item sum.
type InvoiceItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
}

// Invoice is an owner-scoped bill issued to a client.
type Invoice struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"userId"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Amount        string        `json:"amount"`
	Status        InvoiceStatus `json:"status"`
	DueDate       time.Time     `json:"dueDate"`
	Items         []InvoiceItem `json:"items"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
