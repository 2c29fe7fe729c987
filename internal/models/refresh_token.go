// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// RefreshToken holds the single live refresh token of a user.
type RefreshToken struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
