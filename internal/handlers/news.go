// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"codeberg.org/oliverandrich/alumni-api/internal/services/news"
	"github.com/labstack/echo/v4"
)

const (
	MsgNewsCreated = "News successful created"
	MsgNewsUpdated = "News successful updated"
	MsgNewsDeleted = "News successful deleted"
)

type newsResponse struct {
	Message string          `json:"message"`
	News    models.NewsView `json:"news"`
}

// ListNews returns a page of articles.
func (h *Handlers) ListNews(c echo.Context) error {
	page, err := h.News.List(c.Request().Context(), pageRequest(c.QueryParam("page"), c.QueryParam("limit")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GetNews returns one article.
func (h *Handlers) GetNews(c echo.Context) error {
	id := c.Param("id")
	if err := validID(id); err != nil {
		return err
	}

	view, err := h.News.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// CreateNews stores an article from a multipart form with a poster and
// optional images.
func (h *Handlers) CreateNews(c echo.Context) error {
	form, err := readForm(c)
	if err != nil {
		return err
	}

	v := newValidator("body")
	v.required("title", form.get("title"))
	v.required("shortDescribe", form.get("shortDescribe"))
	var content []models.ContentBlock
	form.jsonList(v, "content", &content)

	poster, closePoster, err := form.upload(v, string(images.Posters))
	if err != nil {
		return err
	}
	defer closePoster()
	imgs, closeImages, err := form.uploads(v, string(images.NewsImages), news.MaxImages)
	if err != nil {
		return err
	}
	defer closeImages()

	if err := v.err(); err != nil {
		return err
	}

	view, err := h.News.Create(c.Request().Context(), news.CreateParams{
		Title:         form.get("title"),
		ShortDescribe: form.get("shortDescribe"),
		Content:       content,
		Poster:        poster,
		Images:        imgs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newsResponse{Message: MsgNewsCreated, News: view})
}

// UpdateNews changes the fields and files sent; the rest stays.
func (h *Handlers) UpdateNews(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := validID(id); err != nil {
		return err
	}

	form, err := readForm(c)
	if err != nil {
		return err
	}

	v := newValidator("body")
	params := news.UpdateParams{
		Title:         form.ptr("title"),
		ShortDescribe: form.ptr("shortDescribe"),
		Editor:        user.Email,
	}
	var content []models.ContentBlock
	if form.jsonList(v, "content", &content) && content == nil {
		content = []models.ContentBlock{}
	}
	params.Content = content

	var closePoster, closeImages func()
	params.Poster, closePoster, err = form.upload(v, string(images.Posters))
	if err != nil {
		return err
	}
	defer closePoster()
	params.Images, closeImages, err = form.uploads(v, string(images.NewsImages), news.MaxImages)
	if err != nil {
		return err
	}
	defer closeImages()

	if err := v.err(); err != nil {
		return err
	}

	view, err := h.News.Update(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newsResponse{Message: MsgNewsUpdated, News: view})
}

// DeleteNews removes an article and its images.
func (h *Handlers) DeleteNews(c echo.Context) error {
	id := c.Param("id")
	if err := validID(id); err != nil {
		return err
	}

	if err := h.News.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message{MsgNewsDeleted})
}
