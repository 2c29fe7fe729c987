// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"net/http"

	"codeberg.org/oliverandrich/alumni-api/internal/auth"
	"codeberg.org/oliverandrich/alumni-api/internal/models"
	authsvc "codeberg.org/oliverandrich/alumni-api/internal/services/auth"
	"github.com/labstack/echo/v4"
)

const (
	MsgRegistered       = "User successful registered"
	MsgActivated        = "Successful activated"
	MsgLogout           = "You successful logout"
	MsgPasswordChanged  = "Password successful changed"
	MsgPasswordRecovery = "Password successful recovered"
	MsgOTPSent          = "Code successful sent"
	MsgOTPResent        = "Code successful resent"
)

type registrationRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	PhoneNumber     string `json:"phoneNumber"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email              string `json:"email"`
	Code               string `json:"code"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// bind decodes the request body into dst.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return NewAPIError(http.StatusBadRequest, MsgValidation)
	}
	return nil
}

// currentUser returns the profile stored by the auth middleware.
func currentUser(c echo.Context) (*models.Profile, error) {
	user := auth.GetUser(c.Request().Context())
	if user == nil {
		return nil, authsvc.ErrUnauthorized
	}
	return user, nil
}

// Register creates an account and mails its activation link.
func (h *Handlers) Register(c echo.Context) error {
	var req registrationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	v := newValidator("body")
	v.email("email", req.Email)
	v.password("password", req.Password)
	v.password("confirmPassword", req.ConfirmPassword)
	v.check(req.ConfirmPassword == req.Password, "confirmPassword", MsgPasswordsEqual)
	v.name("name", req.Name)
	v.name("surname", req.Surname)
	if err := v.err(); err != nil {
		return err
	}

	_, err := h.Auth.Register(c.Request().Context(), authsvc.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Surname:     req.Surname,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message{MsgRegistered})
}

// Activate confirms the email address behind an activation link.
func (h *Handlers) Activate(c echo.Context) error {
	if err := h.Auth.Activate(c.Request().Context(), c.Param("link")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message{MsgActivated})
}

// Login returns a token pair and the user's profile, and sets the refresh cookie.
func (h *Handlers) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	v := newValidator("body")
	v.email("email", req.Email)
	if err := v.err(); err != nil {
		return err
	}

	sess, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respondSession(c, sess)
}

// Refresh rotates the refresh token taken from the body or the cookie.
func (h *Handlers) Refresh(c echo.Context) error {
	sess, err := h.Auth.Refresh(c.Request().Context(), h.refreshToken(c))
	if err != nil {
		return err
	}
	return h.respondSession(c, sess)
}

// Logout revokes the refresh token and clears the cookie.
func (h *Handlers) Logout(c echo.Context) error {
	if err := h.Auth.Logout(c.Request().Context(), h.refreshToken(c)); err != nil {
		return err
	}
	c.SetCookie(h.Cookies.Clear())
	return c.JSON(http.StatusOK, message{MsgLogout})
}

func (h *Handlers) refreshToken(c echo.Context) string {
	var req refreshRequest
	if err := c.Bind(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	return h.Cookies.RefreshToken(c.Request())
}

func (h *Handlers) respondSession(c echo.Context, sess *authsvc.Session) error {
	cookie, err := h.Cookies.Create(sess.RefreshToken)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, sess)
}

// ChangePassword replaces the authenticated user's password.
func (h *Handlers) ChangePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	v := newValidator("body")
	v.password("oldPassword", req.OldPassword)
	v.password("newPassword", req.NewPassword)
	v.password("confirmNewPassword", req.ConfirmNewPassword)
	v.check(req.ConfirmNewPassword == req.NewPassword, "confirmNewPassword", MsgPasswordsEqual)
	if err := v.err(); err != nil {
		return err
	}

	err = h.Auth.ChangePassword(c.Request().Context(), authsvc.ChangePasswordParams{
		UserID:             user.ID,
		OldPassword:        req.OldPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message{MsgPasswordChanged})
}

// SendOTP mails a fresh reset code.
func (h *Handlers) SendOTP(c echo.Context) error {
	return h.sendCode(c, h.Auth.SendOTP, MsgOTPSent)
}

// ResendOTP mails a fresh reset code when one is pending.
func (h *Handlers) ResendOTP(c echo.Context) error {
	return h.sendCode(c, h.Auth.ResendOTP, MsgOTPResent)
}

func (h *Handlers) sendCode(c echo.Context, send func(ctx context.Context, email string) error, ok string) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	v := newValidator("body")
	v.email("email", req.Email)
	if err := v.err(); err != nil {
		return err
	}

	if err := send(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message{ok})
}

// ResetPassword sets a new password after checking the mailed code.
func (h *Handlers) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	v := newValidator("body")
	v.code("code", req.Code)
	v.email("email", req.Email)
	v.password("newPassword", req.NewPassword)
	v.password("confirmNewPassword", req.ConfirmNewPassword)
	v.check(req.ConfirmNewPassword == req.NewPassword, "confirmNewPassword", MsgPasswordsEqual)
	if err := v.err(); err != nil {
		return err
	}

	err := h.Auth.ResetPassword(c.Request().Context(), authsvc.ResetPasswordParams{
		Email:              req.Email,
		Code:               req.Code,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message{MsgPasswordRecovery})
}
