// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session carries the refresh token in a signed HttpOnly cookie.
package session

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/config"
	"github.com/gorilla/securecookie"
)

// CookieName is the name of the refresh token cookie.
const CookieName = "refreshToken"

const keyLength = 32

// Data is the decoded cookie payload.
type Data struct {
	RefreshToken string    `json:"t"`
	ExpiresAt    time.Time `json:"e"`
}

// Manager encodes and decodes refresh token cookies.
type Manager struct {
	codec  *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
}

// NewManager builds a Manager from hex-encoded keys. An empty hash key gets
// a random one, which does not survive restarts.
func NewManager(cfg *config.CookieConfig, maxAge time.Duration) (*Manager, error) {
	hashKey, err := decodeKey(cfg.HashKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session hash key: %w", err)
	}
	if hashKey == nil {
		slog.Warn("cookie hash key not set, using a random key")
		hashKey = securecookie.GenerateRandomKey(keyLength)
	}

	blockKey, err := decodeKey(cfg.BlockKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session block key: %w", err)
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(maxAge.Seconds()))
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{codec: codec, maxAge: maxAge, secure: cfg.Secure}, nil
}

func decodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != keyLength {
		return nil, fmt.Errorf("must be %d bytes, got %d", keyLength, len(key))
	}
	return key, nil
}

// Create returns a cookie holding refreshToken.
func (m *Manager) Create(refreshToken string) (*http.Cookie, error) {
	data := Data{
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(m.maxAge).UTC(),
	}
	value, err := m.codec.Encode(CookieName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cookie: %w", err)
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear returns a cookie that removes the refresh token cookie.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Parse returns the cookie payload of r. A missing, invalid or expired
// cookie yields nil without error.
func (m *Manager) Parse(r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var data Data
	if err := m.codec.Decode(CookieName, cookie.Value, &data); err != nil {
		return nil, nil //nolint:nilerr // tampered cookies are treated as absent
	}
	if time.Now().After(data.ExpiresAt) {
		return nil, nil
	}
	return &data, nil
}

// RefreshToken returns the token carried by r's cookie, or "".
func (m *Manager) RefreshToken(r *http.Request) string {
	data, err := m.Parse(r)
	if err != nil || data == nil {
		return ""
	}
	return data.RefreshToken
}
