// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultResetTokenTTL is how long a password-reset token stays valid.
const DefaultResetTokenTTL = 3 * time.Hour

// ResetTokens is a process-wide arena of password-reset tokens keyed by
// token string. Entries expire after a fixed TTL and are removed on
// successful use or by Sweep. The arena is not durable; tokens are
// re-issuable so loss on restart is acceptable.
type ResetTokens struct {
	mu      sync.Mutex
	entries map[string]resetEntry
	ttl     time.Duration

	now func() time.Time // test hook
}

type resetEntry struct {
	userID    int64
	expiresAt time.Time
}

// NewResetTokens creates a token arena with the given TTL.
// A non-positive TTL falls back to DefaultResetTokenTTL.
func NewResetTokens(ttl time.Duration) *ResetTokens {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &ResetTokens{
		entries: make(map[string]resetEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue creates a new single-use token for the user.
func (rt *ResetTokens) Issue(userID int64) string {
	token := uuid.NewString()

	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.entries[token] = resetEntry{
		userID:    userID,
		expiresAt: rt.now().Add(rt.ttl),
	}
	return token
}

// Lookup returns the user ID for a valid token without consuming it.
func (rt *ResetTokens) Lookup(token string) (int64, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	entry, ok := rt.entries[token]
	if !ok {
		return 0, false
	}
	if rt.now().After(entry.expiresAt) {
		delete(rt.entries, token)
		return 0, false
	}
	return entry.userID, true
}

// Consume validates and removes a token. A token can be consumed once.
func (rt *ResetTokens) Consume(token string) (int64, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	entry, ok := rt.entries[token]
	if !ok {
		return 0, false
	}
	delete(rt.entries, token)
	if rt.now().After(entry.expiresAt) {
		return 0, false
	}
	return entry.userID, true
}

// Sweep removes expired tokens and returns how many were dropped.
func (rt *ResetTokens) Sweep() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	now := rt.now()
	dropped := 0
	for token, entry := range rt.entries {
		if now.After(entry.expiresAt) {
			delete(rt.entries, token)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of live entries, expired or not.
func (rt *ResetTokens) Len() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.entries)
}
