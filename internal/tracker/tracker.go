// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

// Package tracker records page views on public routes for the traffic
// dashboard. Visits are written asynchronously so tracking never slows a
// response down.
package tracker

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/avamark/portal-go/internal/geoip"
	"github.com/avamark/portal-go/internal/middleware"
	"github.com/avamark/portal-go/internal/store"
)

// Traffic source buckets used in the dashboard.
const (
	SourceDirect   = "direct"
	SourceSearch   = "search"
	SourceSocial   = "social"
	SourceReferral = "referral"
)

var searchHosts = []string{"google.", "bing.", "duckduckgo.", "yahoo.", "yandex."}

var socialHosts = []string{
	"facebook.", "instagram.", "twitter.", "x.com", "t.co",
	"linkedin.", "youtube.", "tiktok.", "pinterest.", "reddit.",
}

// Tracker records visits.
type Tracker struct {
	queries *store.Queries
	geo     *geoip.Resolver
	logger  *slog.Logger
}

// New creates a Tracker. geo may be a disabled resolver.
func New(db *sql.DB, geo *geoip.Resolver, logger *slog.Logger) *Tracker {
	return &Tracker{queries: store.New(db), geo: geo, logger: logger}
}

// Middleware records a visit for each GET request passing through it.
func (t *Tracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			t.Record(r)
		}
		next.ServeHTTP(w, r)
	})
}

// Record extracts visit attributes from the request and writes them in the
// background.
func (t *Tracker) Record(r *http.Request) {
	ip := middleware.ClientIP(r)
	ua := useragent.Parse(r.UserAgent())

	visit := store.CreateVisitParams{
		Path:      r.URL.Path,
		Source:    classifySource(r.Referer(), r.Host),
		VisitorID: visitorID(ip, r.UserAgent()),
		Country:   t.geo.Country(ip),
		IsBot:     ua.Bot,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := t.queries.CreateVisit(ctx, visit); err != nil {
			t.logger.Warn("record visit failed", "path", visit.Path, "error", err)
		}
	}()
}

// visitorID derives a stable anonymous identifier from IP and user agent.
// No raw IP is stored.
func visitorID(ip, userAgent string) string {
	sum := sha256.Sum256([]byte(ip + "|" + userAgent))
	return hex.EncodeToString(sum[:16])
}

// classifySource buckets a referrer into direct, search, social, or referral.
// Same-host referrers count as direct navigation.
func classifySource(referer, selfHost string) string {
	if referer == "" {
		return SourceDirect
	}
	u, err := url.Parse(referer)
	if err != nil || u.Host == "" {
		return SourceDirect
	}
	host := strings.ToLower(u.Host)
	if host == strings.ToLower(selfHost) {
		return SourceDirect
	}
	for _, s := range searchHosts {
		if strings.Contains(host, s) {
			return SourceSearch
		}
	}
	for _, s := range socialHosts {
		if strings.Contains(host, s) {
			return SourceSocial
		}
	}
	return SourceReferral
}
