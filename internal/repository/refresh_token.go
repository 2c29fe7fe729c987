// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
)

// UpsertRefreshToken stores token as the only live refresh token of userID,
// replacing any previous one.
func (r *Repository) UpsertRefreshToken(ctx context.Context, userID, token string) error {
	now := time.Now().UTC()
	_, err := r.exec(ctx, `INSERT INTO refresh_tokens (user_id, token, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		userID, token, now, now)
	return err
}

// GetRefreshToken retrieves a refresh token record by token value.
func (r *Repository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.get(ctx, &rt, `SELECT user_id, token, created_at, updated_at FROM refresh_tokens WHERE token = ?`, token); err != nil {
		return nil, err
	}
	return &rt, nil
}

// DeleteRefreshToken deletes a refresh token by value. Deleting an unknown token is not an error.
func (r *Repository) DeleteRefreshToken(ctx context.Context, token string) error {
	_, err := r.exec(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token)
	return err
}
