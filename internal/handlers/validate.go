// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	authsvc "codeberg.org/oliverandrich/alumni-api/internal/services/auth"
	"codeberg.org/oliverandrich/alumni-api/internal/services/otp"
	"github.com/google/uuid"
)

const (
	MsgEmail          = "Write correct email"
	MsgPasswordsEqual = "Password need to be equal"
	MsgName           = "Name must be min 2 length, max 32"
	MsgRequired       = "Field is required"
	MsgCode           = "Code must be 6 digits"
	MsgID             = "Id must be a valid uuid"
	MsgYear           = "Year of release must be a number"
	MsgEducation      = "Education must be one of the allowed values"
	MsgSpecialty      = "Specialty must be one of the allowed values"
	MsgJSONList       = "Must be a JSON array"
)

const (
	minNameLength = 2
	maxNameLength = 32
)

var passwords = authsvc.DefaultPasswordValidator()

// validator collects field errors for one request.
type validator struct {
	location string
	errs     []FieldError
}

func newValidator(location string) *validator {
	return &validator{location: location}
}

func (v *validator) check(ok bool, path, msg string) {
	if !ok {
		v.errs = append(v.errs, FieldError{Location: v.location, Path: path, Msg: msg})
	}
}

func (v *validator) email(path, value string) {
	v.check(validEmail(value), path, MsgEmail)
}

func (v *validator) password(path, value string) {
	v.check(passwords.Valid(value), path, passwords.Message())
}

func (v *validator) name(path, value string) {
	n := utf8.RuneCountInString(value)
	v.check(n >= minNameLength && n <= maxNameLength, path, MsgName)
}

func (v *validator) required(path, value string) {
	v.check(strings.TrimSpace(value) != "", path, MsgRequired)
}

func (v *validator) code(path, value string) {
	v.check(otp.Valid(value), path, MsgCode)
}

func (v *validator) id(path, value string) {
	_, err := uuid.Parse(value)
	v.check(err == nil, path, MsgID)
}

// err returns a validation APIError, or nil when every check passed.
func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return ValidationError(v.errs)
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

func validID(id string) error {
	v := newValidator("params")
	v.id("id", id)
	return v.err()
}

// pageRequest reads page and limit query params. Unparsable values fall back
// to the defaults.
func pageRequest(page, limit string) models.PageRequest {
	p, _ := strconv.Atoi(page)
	l, _ := strconv.Atoi(limit)
	return models.PageRequest{Page: p, Limit: l}.Normalize()
}

func atoiPtr(v *validator, path string, value *string) *int {
	if value == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*value))
	v.check(err == nil, path, MsgYear)
	if err != nil {
		return nil
	}
	return &n
}

func oneOf(v *validator, path string, value *string, valid func(string) bool, msg string) {
	if value != nil {
		v.check(valid(*value), path, msg)
	}
}
