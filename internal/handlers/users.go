// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"codeberg.org/oliverandrich/alumni-api/internal/services/users"
	"github.com/labstack/echo/v4"
)

const MsgUserUpdated = "User successful updated"

type userUpdated struct {
	Message string         `json:"message"`
	User    models.Profile `json:"user"`
}

// ListUsers returns a page of the alumni directory.
func (h *Handlers) ListUsers(c echo.Context) error {
	filter := repository.UserFilter{
		Name:      c.QueryParam("name"),
		Specialty: c.QueryParam("specialty"),
		Education: c.QueryParam("education"),
	}

	v := newValidator("query")
	if raw := c.QueryParam("yearOfRelease"); raw != "" {
		if year := atoiPtr(v, "yearOfRelease", &raw); year != nil {
			filter.YearOfRelease = *year
		}
	}
	if err := v.err(); err != nil {
		return err
	}

	page, err := h.Users.List(c.Request().Context(), users.ListParams{
		Page:   pageRequest(c.QueryParam("page"), c.QueryParam("limit")),
		Filter: filter,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Profile returns the authenticated user's profile.
func (h *Handlers) Profile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.Users.Profile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetUser returns one user's profile.
func (h *Handlers) GetUser(c echo.Context) error {
	id := c.Param("id")
	if err := validID(id); err != nil {
		return err
	}

	profile, err := h.Users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile changes the authenticated user's profile fields and avatar.
// Email, password, id and createdAt are not writable here.
func (h *Handlers) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	form, err := readForm(c)
	if err != nil {
		return err
	}

	v := newValidator("body")
	params := users.UpdateProfileParams{
		Name:              form.ptr("name"),
		Surname:           form.ptr("surname"),
		PhoneNumber:       form.ptr("phoneNumber"),
		Education:         form.ptr("education"),
		Specialty:         form.ptr("specialty"),
		YearOfRelease:     atoiPtr(v, "yearOfRelease", form.ptr("yearOfRelease")),
		Place:             form.ptr("place"),
		WorkPlace:         form.ptr("workPlace"),
		PositionAtWork:    form.ptr("positionAtWork"),
		ShortBiography:    form.ptr("shortBiography"),
		EducationAndGoals: form.ptr("educationAndGoals"),
	}
	if params.Name != nil {
		v.name("name", *params.Name)
	}
	if params.Surname != nil {
		v.name("surname", *params.Surname)
	}
	oneOf(v, "education", params.Education, models.ValidEducation, MsgEducation)
	oneOf(v, "specialty", params.Specialty, models.ValidSpecialty, MsgSpecialty)

	avatar, closeFiles, err := form.upload(v, string(images.Avatars))
	if err != nil {
		return err
	}
	defer closeFiles()

	if err := v.err(); err != nil {
		return err
	}

	profile, err := h.Users.Update(c.Request().Context(), user.ID, params, avatar)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userUpdated{Message: MsgUserUpdated, User: profile})
}
