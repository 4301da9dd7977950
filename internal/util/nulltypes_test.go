// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"testing"
	"time"
)

func TestNullWrappers(t *testing.T) {
	if ns := NullString("hash"); !ns.Valid || ns.String != "hash" {
		t.Errorf("NullString(hash) = %+v", ns)
	}
	if ns := NullString(""); ns.Valid {
		t.Errorf("NullString(\"\") should be invalid, got %+v", ns)
	}

	now := time.Now()
	if nt := NullTime(now); !nt.Valid || !nt.Time.Equal(now) {
		t.Errorf("NullTime(now) = %+v", nt)
	}
	if nt := NullTime(time.Time{}); nt.Valid {
		t.Errorf("NullTime(zero) should be invalid, got %+v", nt)
	}

	if ni := NullInt64(7); !ni.Valid || ni.Int64 != 7 {
		t.Errorf("NullInt64(7) = %+v", ni)
	}
	if ni := NullInt64(0); ni.Valid {
		t.Errorf("NullInt64(0) should be invalid, got %+v", ni)
	}
}
