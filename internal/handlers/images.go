// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"mime"
	"net/http"
	"path"

	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"github.com/labstack/echo/v4"
)

// Image streams a stored upload.
func (h *Handlers) Image(c echo.Context) error {
	folder, ok := images.ParseFolder(c.Param("folder"))
	if !ok {
		return images.ErrNotFound
	}

	rc, err := h.Images.Open(c.Request().Context(), folder, c.Param("name"))
	if err != nil {
		return err
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(c.Param("name")))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, rc)
}
