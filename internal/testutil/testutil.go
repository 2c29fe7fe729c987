// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"codeberg.org/oliverandrich/alumni-api/internal/database"
	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext password of users created by NewTestUser.
const TestPassword = "secret1"

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates an activated, non-admin user with TestPassword.
func NewTestUser(t *testing.T, repo *repository.Repository, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test",
		Surname:      "User",
		PhoneNumber:  "+1000",
		IsActivated:  true,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// TestAPIURL is the API URL of services built by NewTestImages.
const TestAPIURL = "http://api.test"

// NewTestImages returns an image service backed by a temporary directory,
// along with that directory. Avatars are stored unscaled.
func NewTestImages(t *testing.T) (*images.Service, string) {
	t.Helper()
	dir := t.TempDir()
	return images.NewService(images.NewDiskStore(dir), TestAPIURL, 0), dir
}

// Upload wraps content as an image upload named filename.
func Upload(filename, content string) *images.Upload {
	return &images.Upload{Filename: filename, Content: strings.NewReader(content)}
}

// Mail is one message captured by Mailer.
type Mail struct {
	To   string
	Link string
	Code string
}

// Mailer records outgoing mail instead of sending it. Err, when set, is
// returned from every send.
type Mailer struct {
	mu          sync.Mutex
	Activations []Mail
	OTPs        []Mail
	Err         error
}

// SendActivationMail records an activation mail.
func (m *Mailer) SendActivationMail(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Activations = append(m.Activations, Mail{To: to, Link: link})
	return nil
}

// SendOTPCode records an OTP mail.
func (m *Mailer) SendOTPCode(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.OTPs = append(m.OTPs, Mail{To: to, Code: code})
	return nil
}

// LastActivation returns the most recent activation mail.
func (m *Mailer) LastActivation(t *testing.T) Mail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Activations, "no activation mail sent")
	return m.Activations[len(m.Activations)-1]
}

// LastOTP returns the most recent OTP mail.
func (m *Mailer) LastOTP(t *testing.T) Mail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.OTPs, "no OTP mail sent")
	return m.OTPs[len(m.OTPs)-1]
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
