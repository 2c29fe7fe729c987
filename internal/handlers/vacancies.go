// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"codeberg.org/oliverandrich/alumni-api/internal/services/vacancies"
	"github.com/labstack/echo/v4"
)

const (
	MsgVacancyCreated = "Vacancy successful created"
	MsgVacancyUpdated = "Vacancy successful updated"
	MsgVacancyDeleted = "Vacancy successful deleted"
)

type vacancyResponse struct {
	Message string             `json:"message"`
	Vacancy models.VacancyView `json:"vacancy"`
}

func (h *Handlers) ListVacancies(c echo.Context) error {
	page, err := h.Vacancies.List(c.Request().Context(), pageRequest(c.QueryParam("page"), c.QueryParam("limit")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handlers) GetVacancy(c echo.Context) error {
	id := c.Param("id")
	if err := validID(id); err != nil {
		return err
	}

	view, err := h.Vacancies.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handlers) CreateVacancy(c echo.Context) error {
	form, err := readForm(c)
	if err != nil {
		return err
	}

	v := newValidator("body")
	v.required("companyName", form.get("companyName"))
	v.required("position", form.get("position"))
	var contacts []models.Contact
	form.jsonList(v, "contacts", &contacts)

	logo, closeLogo, err := form.upload(v, string(images.CompanyLogos))
	if err != nil {
		return err
	}
	defer closeLogo()

	if err := v.err(); err != nil {
		return err
	}

	view, err := h.Vacancies.Create(c.Request().Context(), vacancies.CreateParams{
		CompanyName:  form.get("companyName"),
		Salary:       form.get("salary"),
		Requirements: form.get("requirements"),
		Position:     form.get("position"),
		Contacts:     contacts,
		Logo:         logo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vacancyResponse{Message: MsgVacancyCreated, Vacancy: view})
}

// UpdateVacancy changes the fields sent and replaces the logo when one is uploaded.
func (h *Handlers) UpdateVacancy(c echo.Context) error {
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
	params := vacancies.UpdateParams{
		CompanyName:  form.ptr("companyName"),
		Salary:       form.ptr("salary"),
		Requirements: form.ptr("requirements"),
		Position:     form.ptr("position"),
		Editor:       user.Email,
	}
	var contacts []models.Contact
	if form.jsonList(v, "contacts", &contacts) && contacts == nil {
		contacts = []models.Contact{}
	}
	params.Contacts = contacts

	var closeLogo func()
	params.Logo, closeLogo, err = form.upload(v, string(images.CompanyLogos))
	if err != nil {
		return err
	}
	defer closeLogo()

	if err := v.err(); err != nil {
		return err
	}

	view, err := h.Vacancies.Update(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vacancyResponse{Message: MsgVacancyUpdated, Vacancy: view})
}

func (h *Handlers) DeleteVacancy(c echo.Context) error {
	id := c.Param("id")
	if err := validID(id); err != nil {
		return err
	}

	if err := h.Vacancies.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message{MsgVacancyDeleted})
}
