// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// MsgTooManyRequests is returned once a client exhausts its budget.
const MsgTooManyRequests = "Too much request"

// RateLimit allows each client IP requests per window. The budget refills
// continuously at requests/window.
func RateLimit(requests int, window time.Duration) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(requests) / window.Seconds()),
		Burst:     requests,
		ExpiresIn: window,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		},
		DenyHandler: func(_ echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, MsgTooManyRequests)
		},
	})
}
