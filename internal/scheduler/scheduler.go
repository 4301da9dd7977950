// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the portal's background jobs: overdue invoice
// sweeps, visit rollups into daily traffic stats, reset token expiry, and
// raw visit retention.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avamark/portal-go/internal/auth"
	"github.com/avamark/portal-go/internal/store"
)

// visitRetention is how long raw visit rows are kept after rollup.
const visitRetention = 7 * 24 * time.Hour

// Scheduler owns the cron instance and job dependencies.
type Scheduler struct {
	cron    *cron.Cron
	queries *store.Queries
	resets  *auth.ResetTokens
	logger  *slog.Logger
}

// New creates a Scheduler. Call Start to register and run jobs.
func New(db *sql.DB, resets *auth.ResetTokens, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		queries: store.New(db),
		resets:  resets,
		logger:  logger,
	}
}

// Start registers all jobs and starts the cron loop.
func (s *Scheduler) Start() {
	// Hourly at minute 10: mark overdue invoices.
	s.addJob("10 * * * *", 2*time.Minute, s.sweepOverdue, "overdue invoice sweep failed")

	// Hourly at minute 20: roll up today's visits into traffic stats.
	s.addJob("20 * * * *", 5*time.Minute, s.rollupToday, "visit rollup failed")

	// Daily at 00:40: finalize yesterday's rollup and prune old raw visits.
	s.addJob("40 0 * * *", 10*time.Minute, s.finalizeYesterday, "daily rollup failed")

	// Every 30 minutes: expire stale password reset tokens.
	_, _ = s.cron.AddFunc("*/30 * * * *", func() {
		if n := s.resets.Sweep(); n > 0 {
			s.logger.Info("expired reset tokens removed", "count", n)
		}
	})

	s.cron.Start()
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) addJob(schedule string, timeout time.Duration, job func(context.Context) error, errMsg string) {
	_, _ = s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := job(ctx); err != nil {
			s.logger.Error(errMsg, "error", err)
		}
	})
}

func (s *Scheduler) sweepOverdue(ctx context.Context) error {
	count, err := s.queries.MarkOverdueInvoices(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("invoices marked overdue", "count", count)
	}
	return nil
}

func (s *Scheduler) rollupToday(ctx context.Context) error {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	return s.rollupDay(ctx, day)
}

func (s *Scheduler) finalizeYesterday(ctx context.Context) error {
	day := time.Now().UTC().Truncate(24 * time.Hour).Add(-24 * time.Hour)
	if err := s.rollupDay(ctx, day); err != nil {
		return err
	}

	pruned, err := s.queries.DeleteVisitsBefore(ctx, time.Now().UTC().Add(-visitRetention))
	if err != nil {
		return err
	}
	if pruned > 0 {
		s.logger.Info("old visits pruned", "count", pruned)
	}
	return nil
}

func (s *Scheduler) rollupDay(ctx context.Context, day time.Time) error {
	rollup, err := s.queries.RollupVisits(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		return err
	}
	if rollup.PageViews == 0 {
		return nil
	}
	_, err = s.queries.UpsertTrafficStat(ctx, store.UpsertTrafficStatParams{
		Date:           day,
		PageViews:      rollup.PageViews,
		UniqueVisitors: rollup.UniqueVisitors,
		Sources:        rollup.Sources,
	})
	return err
}
