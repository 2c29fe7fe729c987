// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"slices"
	"time"
)

// Education levels accepted on user profiles.
var Educations = []string{
	"Среднее-Профессиональное",
	"Бакалавриат",
	"Магистратура",
	"Докторантура",
	"Аспирантура",
}

// Specialties accepted on user profiles.
var Specialties = []string{
	"Программист",
	"Врач",
	"Психолог",
	"Переводчик",
}

// ValidEducation reports whether s is one of Educations.
func ValidEducation(s string) bool {
	return slices.Contains(Educations, s)
}

// ValidSpecialty reports whether s is one of Specialties.
func ValidSpecialty(s string) bool {
	return slices.Contains(Specialties, s)
}

// User is the stored account record.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID                string    `db:"id" json:"id"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	Name              string    `db:"name" json:"name"`
	Surname           string    `db:"surname" json:"surname"`
	PhoneNumber       string    `db:"phone_number" json:"phoneNumber"`
	IsActivated       bool      `db:"is_activated" json:"-"`
	IsAdmin           bool      `db:"is_admin" json:"isAdmin"`
	ActivationLink    *string   `db:"activation_link" json:"-"`
	ResetCode         *string   `db:"reset_code" json:"-"`
	Education         *string   `db:"education" json:"education"`
	Specialty         *string   `db:"specialty" json:"specialty"`
	YearOfRelease     *int      `db:"year_of_release" json:"yearOfRelease"`
	Place             *string   `db:"place" json:"place"`
	WorkPlace         *string   `db:"work_place" json:"workPlace"`
	PositionAtWork    *string   `db:"position_at_work" json:"positionAtWork"`
	ShortBiography    *string   `db:"short_biography" json:"shortBiography"`
	EducationAndGoals *string   `db:"education_and_goals" json:"educationAndGoals"`
	Avatar            *string   `db:"avatar" json:"avatar"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"-"`
}

// HasPendingOTP reports whether a reset code is waiting to be used.
func (u *User) HasPendingOTP() bool {
	return u.ResetCode != nil
}

// Profile is the public projection of a user. It is embedded in signed tokens
// and returned to API callers, so it never carries secrets.
type Profile struct { //nolint:govet // fieldalignment: readability over optimization
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Surname           string    `json:"surname"`
	IsAdmin           bool      `json:"isAdmin"`
	PhoneNumber       string    `json:"phoneNumber"`
	Education         *string   `json:"education"`
	Specialty         *string   `json:"specialty"`
	YearOfRelease     *int      `json:"yearOfRelease"`
	Place             *string   `json:"place"`
	WorkPlace         *string   `json:"workPlace"`
	PositionAtWork    *string   `json:"positionAtWork"`
	ShortBiography    *string   `json:"shortBiography"`
	EducationAndGoals *string   `json:"educationAndGoals"`
	Avatar            *string   `json:"avatar"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Profile projects the user. resolveAvatar turns the stored avatar file name
// into a public URL; nil keeps the file name.
func (u *User) Profile(resolveAvatar func(name string) string) Profile {
	p := Profile{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Surname:           u.Surname,
		IsAdmin:           u.IsAdmin,
		PhoneNumber:       u.PhoneNumber,
		Education:         u.Education,
		Specialty:         u.Specialty,
		YearOfRelease:     u.YearOfRelease,
		Place:             u.Place,
		WorkPlace:         u.WorkPlace,
		PositionAtWork:    u.PositionAtWork,
		ShortBiography:    u.ShortBiography,
		EducationAndGoals: u.EducationAndGoals,
		CreatedAt:         u.CreatedAt,
	}
	if u.Avatar != nil {
		avatar := *u.Avatar
		if resolveAvatar != nil {
			avatar = resolveAvatar(avatar)
		}
		p.Avatar = &avatar
	}
	return p
}
