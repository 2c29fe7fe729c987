// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"github.com/google/uuid"
)

const newsColumns = `id, title, poster, short_describe, content, news_images, created_at, last_update, updated_by`

// CreateNews inserts a news article.
func (r *Repository) CreateNews(ctx context.Context, n *models.News) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.UpdatedBy == "" {
		n.UpdatedBy = models.NotUpdatedYet
	}
	_, err := r.exec(ctx, `INSERT INTO news (`+newsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Poster, n.ShortDescribe, n.Content, n.NewsImages, n.CreatedAt, n.LastUpdate, n.UpdatedBy)
	return err
}

// GetNews retrieves a news article by ID.
func (r *Repository) GetNews(ctx context.Context, id string) (*models.News, error) {
	var n models.News
	if err := r.get(ctx, &n, `SELECT `+newsColumns+` FROM news WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNews writes the editable columns of n.
func (r *Repository) UpdateNews(ctx context.Context, n *models.News) error {
	return r.execOne(ctx, `UPDATE news SET title = ?, poster = ?, short_describe = ?, content = ?,
		news_images = ?, last_update = ?, updated_by = ? WHERE id = ?`,
		n.Title, n.Poster, n.ShortDescribe, n.Content, n.NewsImages, n.LastUpdate, n.UpdatedBy, n.ID)
}

// DeleteNews deletes a news article by ID.
func (r *Repository) DeleteNews(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM news WHERE id = ?`, id)
}

// ListNews returns one page of news, newest first.
func (r *Repository) ListNews(ctx context.Context, page models.PageRequest) ([]models.News, int64, error) {
	var total int64
	if err := r.get(ctx, &total, `SELECT count(*) FROM news`); err != nil {
		return nil, 0, err
	}

	var items []models.News
	if err := r.list(ctx, &items, `SELECT `+newsColumns+` FROM news ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		page.Limit, page.Offset()); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
