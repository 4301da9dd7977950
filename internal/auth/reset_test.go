// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"testing"
	"time"
)

func TestResetTokenIssueAndConsume(t *testing.T) {
	rt := NewResetTokens(DefaultResetTokenTTL)

	token := rt.Issue(42)
	if token == "" {
		t.Fatal("empty token issued")
	}

	if id, ok := rt.Lookup(token); !ok || id != 42 {
		t.Fatalf("Lookup = (%d, %v), want (42, true)", id, ok)
	}

	id, ok := rt.Consume(token)
	if !ok || id != 42 {
		t.Fatalf("Consume = (%d, %v), want (42, true)", id, ok)
	}

	// Single use: a second consume must fail.
	if _, ok := rt.Consume(token); ok {
		t.Error("token consumed twice")
	}
	if _, ok := rt.Lookup(token); ok {
		t.Error("consumed token still resolvable")
	}
}

func TestResetTokenUnknown(t *testing.T) {
	rt := NewResetTokens(DefaultResetTokenTTL)
	if _, ok := rt.Consume("no-such-token"); ok {
		t.Error("unknown token accepted")
	}
}

func TestResetTokenExpiry(t *testing.T) {
	rt := NewResetTokens(3 * time.Hour)

	current := time.Now()
	rt.now = func() time.Time { return current }

	token := rt.Issue(7)

	current = current.Add(3*time.Hour - time.Minute)
	if _, ok := rt.Lookup(token); !ok {
		t.Error("token expired before its TTL")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := rt.Consume(token); ok {
		t.Error("expired token consumed")
	}
}

func TestResetTokenSweep(t *testing.T) {
	rt := NewResetTokens(time.Hour)

	current := time.Now()
	rt.now = func() time.Time { return current }

	rt.Issue(1)
	rt.Issue(2)
	current = current.Add(2 * time.Hour)
	live := rt.Issue(3)

	if dropped := rt.Sweep(); dropped != 2 {
		t.Errorf("Sweep dropped %d, want 2", dropped)
	}
	if rt.Len() != 1 {
		t.Errorf("Len = %d after sweep, want 1", rt.Len())
	}
	if id, ok := rt.Lookup(live); !ok || id != 3 {
		t.Error("live token lost during sweep")
	}
}

func TestResetTokensReplaceOnReissue(t *testing.T) {
	rt := NewResetTokens(time.Hour)
	first := rt.Issue(9)
	second := rt.Issue(9)
	if first == second {
		t.Fatal("re-issue produced an identical token")
	}
	// Both stay valid until consumed or expired; each is independently single-use.
	if _, ok := rt.Consume(first); !ok {
		t.Error("first token invalid")
	}
	if _, ok := rt.Consume(second); !ok {
		t.Error("second token invalid")
	}
}
