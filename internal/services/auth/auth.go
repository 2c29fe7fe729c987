// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"codeberg.org/oliverandrich/alumni-api/internal/services/otp"
	"codeberg.org/oliverandrich/alumni-api/internal/services/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Mailer delivers activation links and OTP codes.
type Mailer interface {
	SendActivationMail(ctx context.Context, to, link string) error
	SendOTPCode(ctx context.Context, to, code string) error
}

// Options configures a Service.
type Options struct {
	BaseURL    string // activation links are built on it
	BcryptCost int
	// AvatarURL turns a stored avatar name into a public URL. Nil keeps the name.
	AvatarURL func(name string) string
}

type Service struct {
	repo    *repository.Repository
	tokens  *token.Service
	mailer  Mailer
	codes   *otp.Generator
	options Options
}

func NewService(repo *repository.Repository, tokens *token.Service, mailer Mailer, opts Options) *Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:    repo,
		tokens:  tokens,
		mailer:  mailer,
		codes:   otp.NewGenerator(),
		options: opts,
	}
}

// SetCodeGenerator replaces the OTP generator.
func (s *Service) SetCodeGenerator(g *otp.Generator) {
	s.codes = g
}

// Session is the result of a successful login or refresh.
type Session struct {
	token.Pair
	User models.Profile `json:"user"`
}

// RegisterParams holds the parameters for user registration
type RegisterParams struct {
	Email       string
	Password    string
	Name        string
	Surname     string
	PhoneNumber string
}

// ActivationURL returns the link mailed to a new user.
func (s *Service) ActivationURL(link string) string {
	return s.options.BaseURL + "/api/auth/activate/" + link
}

// Register creates a pending account, mails its activation link and issues
// a token pair for it. The tokens are persisted but not returned.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	_, err := s.repo.GetUserByEmail(ctx, params.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := s.hash(params.Password)
	if err != nil {
		return nil, err
	}

	link := uuid.NewString()
	user := &models.User{
		Email:          params.Email,
		PasswordHash:   passwordHash,
		Name:           params.Name,
		Surname:        params.Surname,
		PhoneNumber:    params.PhoneNumber,
		ActivationLink: &link,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendActivationMail(ctx, user.Email, s.ActivationURL(link)); err != nil {
		return nil, fmt.Errorf("failed to send activation mail: %w", err)
	}

	if _, err := s.issue(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("register_success", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Activate marks the account owning link as activated. Repeating it is a no-op.
func (s *Service) Activate(ctx context.Context, link string) error {
	user, err := s.repo.GetUserByActivationLink(ctx, link)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidActivationLink
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsActivated {
		return nil
	}

	user.IsActivated = true
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	slog.Info("account_activated", "user_id", user.ID)
	return nil
}

// Login authenticates a user and starts a new session, replacing any previous one.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActivated {
		slog.Warn("login_failed", "email", email, "reason", "not_activated")
		return nil, ErrEmailNotActivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrIncorrectPassword
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return session, nil
}

// Logout deletes the stored refresh token. The access token stays valid until it expires.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrUnauthorized
	}

	rt, err := s.tokens.Lookup(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		return err
	}

	slog.Info("logout_success", "user_id", rt.UserID)
	return nil
}

// Refresh exchanges a live refresh token for a new session and rotates it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		slog.Warn("refresh_failed", "reason", "invalid_token")
		return nil, ErrUnauthorized
	}

	if _, err := s.tokens.Lookup(ctx, refreshToken); err != nil {
		if errors.Is(err, token.ErrNotFound) {
			slog.Warn("refresh_failed", "user_id", claims.Subject, "reason", "not_live")
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("refresh_failed", "user_id", claims.Subject, "reason", "user_not_found")
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.issue(ctx, user)
}

// ChangePasswordParams holds the parameters for a password change.
type ChangePasswordParams struct {
	UserID             string
	OldPassword        string
	NewPassword        string
	ConfirmNewPassword string
}

// ChangePassword changes a user's password (when they know their current password)
func (s *Service) ChangePassword(ctx context.Context, params ChangePasswordParams) error {
	user, err := s.findByID(ctx, params.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(params.OldPassword)); err != nil {
		return ErrIncorrectPassword
	}

	if params.NewPassword != params.ConfirmNewPassword {
		return ErrPasswordMismatch
	}

	passwordHash, err := s.hash(params.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = passwordHash
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password_changed", "user_id", user.ID)
	return nil
}

// SendOTP mails a fresh reset code and stores it on the account.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.sendCode(ctx, user)
}

// ResendOTP replaces a pending reset code with a fresh one.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.HasPendingOTP() {
		return ErrNoPendingOtp
	}
	return s.sendCode(ctx, user)
}

func (s *Service) sendCode(ctx context.Context, user *models.User) error {
	code, err := s.codes.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	if err := s.mailer.SendOTPCode(ctx, user.Email, code); err != nil {
		return fmt.Errorf("failed to send otp code: %w", err)
	}

	user.ResetCode = &code
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to store otp code: %w", err)
	}

	slog.Info("otp_sent", "user_id", user.ID)
	return nil
}

// ResetPasswordParams holds the parameters for an OTP password reset.
type ResetPasswordParams struct {
	Email              string
	Code               string
	NewPassword        string
	ConfirmNewPassword string
}

// ResetPassword sets a new password when code matches the pending reset code.
// The code is consumed on success; on any failure nothing is changed.
func (s *Service) ResetPassword(ctx context.Context, params ResetPasswordParams) error {
	user, err := s.findByEmail(ctx, params.Email)
	if err != nil {
		return err
	}

	if !user.HasPendingOTP() {
		return ErrNoPendingOtp
	}

	if !otp.Equal(*user.ResetCode, params.Code) {
		slog.Warn("password_reset_failed", "user_id", user.ID, "reason", "otp_incorrect")
		return ErrOtpIncorrect
	}

	if params.NewPassword != params.ConfirmNewPassword {
		return ErrPasswordMismatch
	}

	passwordHash, err := s.hash(params.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = passwordHash
	user.ResetCode = nil
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password_reset", "user_id", user.ID)
	return nil
}

// EnsureAdmin makes sure at least one admin exists. An existing account with
// email is promoted; otherwise an activated admin account is created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}

	if count > 0 {
		return nil // Admin already exists
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		user.IsAdmin = true
		user.IsActivated = true
		if err := s.repo.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("failed to set admin: %w", err)
		}
	case errors.Is(err, repository.ErrNotFound):
		passwordHash, err := s.hash(password)
		if err != nil {
			return err
		}
		user = &models.User{
			Email:        email,
			PasswordHash: passwordHash,
			Name:         "Admin",
			Surname:      "Admin",
			IsActivated:  true,
			IsAdmin:      true,
		}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
	default:
		return fmt.Errorf("failed to get user: %w", err)
	}

	slog.Info("admin_ensured", "user_id", user.ID, "email", email)
	return nil
}

// Profile projects user with the configured avatar URL resolver.
func (s *Service) Profile(user *models.User) models.Profile {
	return user.Profile(s.options.AvatarURL)
}

// issue signs a new pair for user and makes its refresh token the live one.
func (s *Service) issue(ctx context.Context, user *models.User) (*Session, error) {
	profile := s.Profile(user)
	pair, err := s.tokens.GeneratePair(profile)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Persist(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return &Session{Pair: pair, User: profile}, nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.options.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Service) findByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
