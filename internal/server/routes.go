// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"codeberg.org/oliverandrich/alumni-api/internal/handlers"
	"github.com/labstack/echo/v4"
)

// Guards are the middleware routes are registered with.
type Guards struct {
	Auth     echo.MiddlewareFunc
	Admin    echo.MiddlewareFunc
	OTPLimit echo.MiddlewareFunc
}

// Routes registers every endpoint of the API on e.
func Routes(e *echo.Echo, h *handlers.Handlers, g Guards) {
	e.GET("/health", h.Health)

	api := e.Group("/api")

	// Auth
	api.POST("/auth/registration", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/auth/activate/:link", h.Activate)
	api.GET("/auth/refresh", h.Refresh)
	api.POST("/auth/refresh", h.Refresh)
	api.POST("/auth/logout", h.Logout)
	api.POST("/auth/change-password", h.ChangePassword, g.Auth)
	api.POST("/auth/send-otp", h.SendOTP, g.OTPLimit)
	api.POST("/auth/resend-otp", h.ResendOTP, g.OTPLimit)
	api.POST("/auth/reset-password", h.ResetPassword, g.OTPLimit)

	// Users
	api.GET("/users", h.ListUsers)
	api.GET("/user/profile", h.Profile, g.Auth)
	api.PATCH("/user/update-profile", h.UpdateProfile, g.Auth)
	api.GET("/user/:id", h.GetUser, g.Auth)

	// News
	api.GET("/news", h.ListNews, g.Auth)
	api.GET("/news/:id", h.GetNews, g.Auth)
	api.POST("/news/create-news", h.CreateNews, g.Auth, g.Admin)
	api.PUT("/news/update-news/:id", h.UpdateNews, g.Auth, g.Admin)
	api.DELETE("/news/delete-news/:id", h.DeleteNews, g.Auth, g.Admin)

	// Vacancies
	api.GET("/vacancies", h.ListVacancies, g.Auth)
	api.GET("/vacancies/:id", h.GetVacancy, g.Auth)
	api.POST("/vacancies/create-vacancy", h.CreateVacancy, g.Auth, g.Admin)
	api.PUT("/vacancies/update-vacancy/:id", h.UpdateVacancy, g.Auth, g.Admin)
	api.DELETE("/vacancies/delete-vacancy/:id", h.DeleteVacancy, g.Auth, g.Admin)

	// Images
	api.GET("/images/:folder/:name", h.Image)
}
