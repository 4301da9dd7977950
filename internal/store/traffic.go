// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avamark/portal-go/internal/model"
)

const trafficColumns = `id, date, page_views, unique_visitors, bounce_rate,
	avg_session_duration, sources, created_at`

func scanTrafficStat(row interface{ Scan(...any) error }) (model.TrafficStat, error) {
	var ts model.TrafficStat
	var sources string
	err := row.Scan(&ts.ID, &ts.Date, &ts.PageViews, &ts.UniqueVisitors,
		&ts.BounceRate, &ts.AvgSessionDuration, &sources, &ts.CreatedAt)
	if err != nil {
		return model.TrafficStat{}, err
	}
	if err := json.Unmarshal([]byte(sources), &ts.Sources); err != nil {
		ts.Sources = nil
	}
	return ts, nil
}

// UpsertTrafficStatParams holds one day of traffic. Date is unique; writing
// an existing date replaces the row's counters.
type UpsertTrafficStatParams struct {
	Date               time.Time
	PageViews          int64
	UniqueVisitors     int64
	BounceRate         float64
	AvgSessionDuration float64
	Sources            map[string]int
}

// UpsertTrafficStat inserts or replaces the stat row for a date.
func (q *Queries) UpsertTrafficStat(ctx context.Context, arg UpsertTrafficStatParams) (model.TrafficStat, error) {
	sources := arg.Sources
	if sources == nil {
		sources = map[string]int{}
	}
	encoded, _ := json.Marshal(sources)

	day := arg.Date.UTC().Truncate(24 * time.Hour)
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO traffic_stats (date, page_views, unique_visitors, bounce_rate,
			avg_session_duration, sources, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			page_views = excluded.page_views,
			unique_visitors = excluded.unique_visitors,
			bounce_rate = excluded.bounce_rate,
			avg_session_duration = excluded.avg_session_duration,
			sources = excluded.sources`,
		day, arg.PageViews, arg.UniqueVisitors, arg.BounceRate,
		arg.AvgSessionDuration, string(encoded), time.Now().UTC(),
	)
	if err != nil {
		return model.TrafficStat{}, err
	}

	row := q.db.QueryRowContext(ctx, `SELECT `+trafficColumns+` FROM traffic_stats WHERE date = ?`, day)
	return scanTrafficStat(row)
}

// ListTrafficStats returns stats, optionally bounded by an inclusive date range.
func (q *Queries) ListTrafficStats(ctx context.Context, from, to *time.Time) ([]model.TrafficStat, error) {
	query := `SELECT ` + trafficColumns + ` FROM traffic_stats`
	var args []any
	switch {
	case from != nil && to != nil:
		query += ` WHERE date >= ? AND date <= ?`
		args = append(args, from.UTC(), to.UTC())
	case from != nil:
		query += ` WHERE date >= ?`
		args = append(args, from.UTC())
	case to != nil:
		query += ` WHERE date <= ?`
		args = append(args, to.UTC())
	}
	query += ` ORDER BY date ASC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.TrafficStat
	for rows.Next() {
		ts, err := scanTrafficStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, ts)
	}
	return stats, rows.Err()
}

// ResetTrafficStats deletes every stat row ("reset" in the admin dashboard).
func (q *Queries) ResetTrafficStats(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM traffic_stats`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateVisitParams holds a single tracked page view.
type CreateVisitParams struct {
	Path      string
	Source    string
	VisitorID string
	Country   string
	IsBot     bool
}

// CreateVisit records one tracked page view.
func (q *Queries) CreateVisit(ctx context.Context, arg CreateVisitParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO visits (path, source, visitor_id, country, is_bot, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Path, arg.Source, arg.VisitorID, arg.Country, arg.IsBot, time.Now().UTC())
	return err
}

// VisitRollup summarizes one day of visits for traffic stat aggregation.
type VisitRollup struct {
	PageViews      int64
	UniqueVisitors int64
	Sources        map[string]int
}

// RollupVisits aggregates non-bot visits in [from, to) into a rollup.
func (q *Queries) RollupVisits(ctx context.Context, from, to time.Time) (VisitRollup, error) {
	rollup := VisitRollup{Sources: map[string]int{}}

	row := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT visitor_id)
		FROM visits WHERE is_bot = 0 AND created_at >= ? AND created_at < ?`,
		from.UTC(), to.UTC())
	if err := row.Scan(&rollup.PageViews, &rollup.UniqueVisitors); err != nil {
		return rollup, err
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT source, COUNT(*) FROM visits
		WHERE is_bot = 0 AND created_at >= ? AND created_at < ?
		GROUP BY source`,
		from.UTC(), to.UTC())
	if err != nil {
		return rollup, err
	}
	defer rows.Close()

	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return rollup, err
		}
		rollup.Sources[source] = count
	}
	return rollup, rows.Err()
}

// DeleteVisitsBefore removes visits older than the cutoff, returning the count.
func (q *Queries) DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM visits WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
