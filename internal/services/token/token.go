// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token issues and verifies access/refresh token pairs and keeps
// track of the single live refresh token per user.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/config"
	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotFound is returned when a refresh token is not the live one.
	ErrNotFound = errors.New("refresh token not found")
)

// Claims is the payload of both token kinds: the public profile snapshot
// plus the registered claims.
type Claims struct {
	models.Profile
	jwt.RegisteredClaims
}

// Pair is an access token and its matching refresh token.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Store persists the live refresh token of each user.
type Store interface {
	Upsert(ctx context.Context, userID, token string) error
	Get(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}

// Service signs and verifies tokens and delegates persistence to a Store.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	store         Store
	now           func() time.Time
}

// NewService creates a token service.
func NewService(cfg config.JWTConfig, store Store) *Service {
	return &Service{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		store:         store,
		now:           time.Now,
	}
}

// GeneratePair signs profile into a fresh access and refresh token.
func (s *Service) GeneratePair(profile models.Profile) (Pair, error) {
	access, err := s.sign(profile, s.accessSecret, s.accessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.sign(profile, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(profile models.Profile, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Profile: profile,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess checks an access token and returns its claims.
func (s *Service) VerifyAccess(tokenStr string) (*Claims, error) {
	return s.verify(tokenStr, s.accessSecret)
}

// VerifyRefresh checks a refresh token and returns its claims.
func (s *Service) VerifyRefresh(tokenStr string) (*Claims, error) {
	return s.verify(tokenStr, s.refreshSecret)
}

func (s *Service) verify(tokenStr string, secret []byte) (*Claims, error) {
	claims := new(Claims)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Persist makes token the only live refresh token of userID.
func (s *Service) Persist(ctx context.Context, userID, token string) error {
	if err := s.store.Upsert(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return nil
}

// Lookup returns the record of a live refresh token or ErrNotFound.
func (s *Service) Lookup(ctx context.Context, token string) (*models.RefreshToken, error) {
	return s.store.Get(ctx, token)
}

// Delete removes a refresh token.
func (s *Service) Delete(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// SetClock replaces the time source. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}
