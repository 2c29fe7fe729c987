// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"codeberg.org/oliverandrich/alumni-api/internal/ctxkeys"
	"codeberg.org/oliverandrich/alumni-api/internal/models"
)

// WithUser returns a copy of ctx carrying the authenticated profile.
func WithUser(ctx context.Context, user *models.Profile) context.Context {
	return context.WithValue(ctx, ctxkeys.User{}, user)
}

// GetUser returns the authenticated user from the context, or nil if not authenticated.
func GetUser(ctx context.Context) *models.Profile {
	if user, ok := ctx.Value(ctxkeys.User{}).(*models.Profile); ok {
		return user
	}
	return nil
}

// IsAuthenticated returns true if the context has an authenticated user.
func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}

// IsAdmin reports whether the authenticated user is an admin.
func IsAdmin(ctx context.Context) bool {
	user := GetUser(ctx)
	return user != nil && user.IsAdmin
}
