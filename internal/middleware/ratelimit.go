// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterCache keeps one rate limiter per key with idle eviction.
type limiterCache[K comparable] struct {
	mu       sync.Mutex
	limiters map[K]*limiterEntry
	limit    rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterCache[K comparable](limit rate.Limit, burst int) *limiterCache[K] {
	lc := &limiterCache[K]{
		limiters: make(map[K]*limiterEntry),
		limit:    limit,
		burst:    burst,
	}
	go lc.cleanup()
	return lc
}

func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	entry, ok := lc.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(lc.limit, lc.burst)}
		lc.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// cleanup evicts limiters idle for over an hour.
func (lc *limiterCache[K]) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-time.Hour)
		lc.mu.Lock()
		for key, entry := range lc.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(lc.limiters, key)
			}
		}
		lc.mu.Unlock()
	}
}

// ContactRateWindow and ContactRateLimit bound public contact-form
// submissions to 5 requests per source IP per 15-minute window.
const (
	ContactRateWindow = 15 * time.Minute
	ContactRateLimit  = 5
)

// RateLimitByIP creates middleware that rejects requests beyond limit
// requests per window for a single source IP. Rejection is terminal (429),
// there is no queueing.
func RateLimitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	cache := newLimiterCache[string](rate.Every(window/time.Duration(limit)), limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !cache.get(ip).Allow() {
				writeAuthError(w, http.StatusTooManyRequests, "Too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the source IP, trusting X-Forwarded-For when present
// (the router runs behind chi middleware.RealIP in production).
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
