// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/alumni-api/internal/config"
	"codeberg.org/oliverandrich/alumni-api/internal/i18n"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const headerAcceptLanguage = "Accept-Language"

func setupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Secure())
	e.Use(corsMiddleware(cfg.Server.CORSOrigins))
	e.Use(middleware.Gzip())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
	e.Use(i18nMiddleware())
}

// corsMiddleware allows the configured origins with credentials, so browser
// clients can send the refresh cookie. No origins allows any.
func corsMiddleware(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, headerAcceptLanguage},
		AllowCredentials: origins[0] != "*",
	})
}

// requestLogger returns middleware that logs requests using slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
			}

			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				} else {
					level = slog.LevelWarn
				}
			}
			slog.LogAttrs(c.Request().Context(), level, "request", attrs...)

			return nil
		},
	})
}

// i18nMiddleware sets the locale based on Accept-Language header.
func i18nMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acceptLang := c.Request().Header.Get(headerAcceptLanguage)
			lang := i18n.MatchLanguage(acceptLang)
			ctx := i18n.WithLocale(c.Request().Context(), lang)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
