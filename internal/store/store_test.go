// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"database/sql"
	"testing"

	"github.com/avamark/portal-go/internal/testutil"
)

func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	return testutil.TestDB(t)
}
