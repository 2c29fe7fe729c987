// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"fmt"
	"unicode/utf8"
)

const (
	MinPasswordLength = 3
	MaxPasswordLength = 32
)

// PasswordValidator checks password length bounds. No other policy applies.
type PasswordValidator struct {
	MinLength int
	MaxLength int
}

// DefaultPasswordValidator returns a validator with the account limits.
func DefaultPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		MinLength: MinPasswordLength,
		MaxLength: MaxPasswordLength,
	}
}

// Message is the validation message shown for out-of-range passwords.
func (v *PasswordValidator) Message() string {
	return fmt.Sprintf("Password must be min %d length, max %d", v.MinLength, v.MaxLength)
}

// Valid reports whether password is within bounds. Length counts runes.
func (v *PasswordValidator) Valid(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= v.MinLength && n <= v.MaxLength
}
