// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	authsvc "codeberg.org/oliverandrich/alumni-api/internal/services/auth"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"codeberg.org/oliverandrich/alumni-api/internal/services/news"
	"codeberg.org/oliverandrich/alumni-api/internal/services/session"
	"codeberg.org/oliverandrich/alumni-api/internal/services/users"
	"codeberg.org/oliverandrich/alumni-api/internal/services/vacancies"
	"github.com/labstack/echo/v4"
)

// Services bundles what the handlers call into.
type Services struct {
	Auth      *authsvc.Service
	Users     *users.Service
	News      *news.Service
	Vacancies *vacancies.Service
	Images    *images.Service
	Cookies   *session.Manager
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo *repository.Repository
	Services
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, svc Services) *Handlers {
	return &Handlers{repo: repo, Services: svc}
}

// message is the body of responses that only acknowledge an action.
type message struct {
	Message string `json:"message"`
}

// Health reports whether the database answers.
func (h *Handlers) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
