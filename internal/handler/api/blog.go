// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/avamark/portal-go/internal/cache"
	"github.com/avamark/portal-go/internal/middleware"
	"github.com/avamark/portal-go/internal/model"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/util"
)

var htmlSanitizer = bluemonday.UGCPolicy()

// BlogPostResponse is a blog post with its markdown rendered to sanitized
// HTML for public consumption.
type BlogPostResponse struct {
	model.BlogPost
	HTML string `json:"html"`
}

func renderPost(post model.BlogPost) BlogPostResponse {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(post.Content), &buf); err != nil {
		// Fall back to the raw markdown; sanitization still applies.
		buf.Reset()
		buf.WriteString(post.Content)
	}
	return BlogPostResponse{
		BlogPost: post,
		HTML:     htmlSanitizer.Sanitize(buf.String()),
	}
}

// ListBlogPosts handles GET /api/blog (public). Only published posts are
// returned; the rendered list is cached until the next admin write.
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []BlogPostResponse
	if err := h.cache.GetJSON(ctx, cache.KeyPublicBlogList, &cached); err == nil {
		WriteSuccess(w, cached, &Meta{Total: len(cached)})
		return
	}

	posts, err := h.queries.ListBlogPosts(ctx, false)
	if err != nil {
		h.logger.Error("listing blog posts failed", "error", err)
		WriteInternalError(w, "Failed to list blog posts")
		return
	}

	rendered := make([]BlogPostResponse, 0, len(posts))
	for _, p := range posts {
		rendered = append(rendered, renderPost(p))
	}
	if err := h.cache.SetJSON(ctx, cache.KeyPublicBlogList, rendered); err != nil {
		h.logger.Warn("blog list cache write failed", "error", err)
	}

	WriteSuccess(w, rendered, &Meta{Total: len(rendered)})
}

// GetBlogPost handles GET /api/blog/{id} (public). Unpublished posts are
// hidden from unauthenticated and non-admin callers.
func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, ok := requireEntityByID(w, r, "Post", func(id int64) (model.BlogPost, error) {
		return h.queries.GetBlogPostByID(ctx, id)
	})
	if !ok {
		return
	}

	if !post.Published {
		caller := middleware.GetUser(r)
		if caller == nil || !caller.IsAdmin() {
			WriteNotFound(w, "Post not found")
			return
		}
	}
	WriteSuccess(w, renderPost(post), nil)
}

// AdminListBlogPosts handles GET /api/admin/blog (admin), including drafts.
func (h *Handler) AdminListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListBlogPosts(r.Context(), true)
	if err != nil {
		h.logger.Error("listing blog posts failed", "error", err)
		WriteInternalError(w, "Failed to list blog posts")
		return
	}
	WriteSuccess(w, posts, &Meta{Total: len(posts)})
}

// CreateBlogPostRequest is the post creation body. The slug is always
// derived from the title server-side.
type CreateBlogPostRequest struct {
	Title         string `json:"title" validate:"required,max=300"`
	Content       string `json:"content" validate:"required"`
	Excerpt       string `json:"excerpt" validate:"max=1000"`
	CoverImageURL string `json:"coverImageUrl"`
	Published     bool   `json:"published"`
}

// CreateBlogPost handles POST /api/blog (admin).
func (h *Handler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetUser(r)

	var req CreateBlogPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	slug, err := h.uniqueSlug(r, req.Title, 0)
	if err != nil {
		WriteInternalError(w, "Failed to create blog post")
		return
	}

	post, err := h.queries.CreateBlogPost(ctx, store.CreateBlogPostParams{
		Title:         req.Title,
		Slug:          slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		CoverImageURL: req.CoverImageURL,
		AuthorID:      caller.ID,
		Published:     req.Published,
	})
	if err != nil {
		h.logger.Error("blog post create failed", "error", err)
		WriteInternalError(w, "Failed to create blog post")
		return
	}

	h.cache.InvalidateBlog(ctx)
	WriteCreated(w, post)
}

// UpdateBlogPostRequest is the post update body.
type UpdateBlogPostRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,max=300"`
	Content       *string `json:"content,omitempty"`
	Excerpt       *string `json:"excerpt,omitempty" validate:"omitempty,max=1000"`
	CoverImageURL *string `json:"coverImageUrl,omitempty"`
	Published     *bool   `json:"published,omitempty"`
}

// UpdateBlogPost handles PATCH /api/blog/{id} (admin). A title change
// regenerates the slug.
func (h *Handler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, ok := requireEntityByID(w, r, "Post", func(id int64) (model.BlogPost, error) {
		return h.queries.GetBlogPostByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateBlogPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	params := store.UpdateBlogPostParams{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Content:       post.Content,
		Excerpt:       post.Excerpt,
		CoverImageURL: post.CoverImageURL,
		Published:     post.Published,
	}
	applyIfSet(req.Title, &params.Title)
	applyIfSet(req.Content, &params.Content)
	applyIfSet(req.Excerpt, &params.Excerpt)
	applyIfSet(req.CoverImageURL, &params.CoverImageURL)
	applyBoolIfSet(req.Published, &params.Published)

	if req.Title != nil && *req.Title != post.Title {
		slug, err := h.uniqueSlug(r, *req.Title, post.ID)
		if err != nil {
			WriteInternalError(w, "Failed to update blog post")
			return
		}
		params.Slug = slug
	}

	updated, err := h.queries.UpdateBlogPost(ctx, params)
	if err != nil {
		h.logger.Error("blog post update failed", "post_id", post.ID, "error", err)
		WriteInternalError(w, "Failed to update blog post")
		return
	}

	h.cache.InvalidateBlog(ctx)
	WriteSuccess(w, updated, nil)
}

// DeleteBlogPost handles DELETE /api/blog/{id} (admin).
func (h *Handler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, ok := requireEntityByID(w, r, "Post", func(id int64) (model.BlogPost, error) {
		return h.queries.GetBlogPostByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteBlogPost(ctx, post.ID); err != nil {
		h.logger.Error("blog post delete failed", "post_id", post.ID, "error", err)
		WriteInternalError(w, "Failed to delete blog post")
		return
	}

	h.cache.InvalidateBlog(ctx)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// uniqueSlug derives a slug from the title, appending a numeric suffix until
// it does not collide with another post.
func (h *Handler) uniqueSlug(r *http.Request, title string, excludeID int64) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "post"
	}

	slug := base
	for i := 2; ; i++ {
		count, err := h.queries.CountBlogPostsBySlug(r.Context(), slug, excludeID)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
