// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/avamark/portal-go/internal/model"
)

const blogColumns = `id, title, slug, content, excerpt, cover_image_url,
	author_id, published, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (model.BlogPost, error) {
	var p model.BlogPost
	var authorID sql.NullInt64
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.CoverImageURL, &authorID, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.BlogPost{}, err
	}
	p.AuthorID = authorID.Int64
	return p, nil
}

// CreateBlogPostParams holds the fields for a blog post. Slug is derived by
// the handler from the title before it reaches the store.
type CreateBlogPostParams struct {
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	CoverImageURL string
	AuthorID      int64
	Published     bool
}

// CreateBlogPost inserts a blog post.
func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (model.BlogPost, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO blog_posts (title, slug, content, excerpt, cover_image_url,
			author_id, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Content, arg.Excerpt, arg.CoverImageURL,
		sql.NullInt64{Int64: arg.AuthorID, Valid: arg.AuthorID != 0},
		arg.Published, now, now,
	)
	if err != nil {
		return model.BlogPost{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.BlogPost{}, err
	}
	return q.GetBlogPostByID(ctx, id)
}

// GetBlogPostByID returns a post by id.
func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = ?`, id)
	return scanBlogPost(row)
}

// GetBlogPostBySlug returns a post by slug.
func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = ?`, slug)
	return scanBlogPost(row)
}

// CountBlogPostsBySlug returns how many posts other than excludeID use a slug.
func (q *Queries) CountBlogPostsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id != ?`,
		slug, excludeID).Scan(&count)
	return count, err
}

// ListBlogPosts returns posts, restricted to published ones unless
// includeUnpublished is set (admin listing).
func (q *Queries) ListBlogPosts(ctx context.Context, includeUnpublished bool) ([]model.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts`
	if !includeUnpublished {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdateBlogPostParams holds the mutable post fields.
type UpdateBlogPostParams struct {
	ID            int64
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	CoverImageURL string
	Published     bool
}

// UpdateBlogPost updates a post and touches updated_at.
func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (model.BlogPost, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE blog_posts SET title = ?, slug = ?, content = ?, excerpt = ?,
			cover_image_url = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.Content, arg.Excerpt,
		arg.CoverImageURL, arg.Published, time.Now().UTC(), arg.ID,
	)
	if err != nil {
		return model.BlogPost{}, err
	}
	return q.GetBlogPostByID(ctx, arg.ID)
}

// DeleteBlogPost removes a post.
func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
