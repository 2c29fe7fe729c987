// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

// Kind classifies auth failures for the HTTP boundary.
type Kind int

const (
	KindUserExists Kind = iota + 1
	KindInvalidActivationLink
	KindUserNotFound
	KindEmailNotActivated
	KindIncorrectPassword
	KindPasswordMismatch
	KindOtpIncorrect
	KindNoPendingOtp
	KindUnauthorized
	KindNotAdmin
)

// Error is a domain failure with a fixed, user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUserExists            = &Error{KindUserExists, "User already exist"}
	ErrInvalidActivationLink = &Error{KindInvalidActivationLink, "Invalid activation link"}
	ErrUserNotFound          = &Error{KindUserNotFound, "User not found"}
	ErrEmailNotActivated     = &Error{KindEmailNotActivated, "Email is not activated"}
	ErrIncorrectPassword     = &Error{KindIncorrectPassword, "Incorrect password"}
	ErrPasswordMismatch      = &Error{KindPasswordMismatch, "New password and confirm new password are not equal"}
	ErrOtpIncorrect          = &Error{KindOtpIncorrect, "Otp code are not correct"}
	ErrNoPendingOtp          = &Error{KindNoPendingOtp, "You did not send opt code, please send firstly"}
	ErrUnauthorized          = &Error{KindUnauthorized, "User not authorized"}
	ErrNotAdmin              = &Error{KindNotAdmin, "You are not a admin"}
)
