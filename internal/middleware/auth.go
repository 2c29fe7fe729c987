// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware holds the echo middleware guarding API routes.
package middleware

import (
	"strings"

	"codeberg.org/oliverandrich/alumni-api/internal/auth"
	authsvc "codeberg.org/oliverandrich/alumni-api/internal/services/auth"
	"codeberg.org/oliverandrich/alumni-api/internal/services/token"
	"github.com/labstack/echo/v4"
)

// TokenVerifier checks access tokens.
type TokenVerifier interface {
	VerifyAccess(token string) (*token.Claims, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" access
// token and stores the token's profile in the request context.
func RequireAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return authsvc.ErrUnauthorized
			}

			claims, err := tokens.VerifyAccess(raw)
			if err != nil {
				return authsvc.ErrUnauthorized
			}

			profile := claims.Profile
			ctx := auth.WithUser(c.Request().Context(), &profile)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// RequireAdmin allows only admins. It must run after RequireAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if !auth.IsAuthenticated(ctx) {
			return authsvc.ErrUnauthorized
		}
		if !auth.IsAdmin(ctx) {
			return authsvc.ErrNotAdmin
		}
		return next(c)
	}
}
