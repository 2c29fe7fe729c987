// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/config"
	"codeberg.org/oliverandrich/alumni-api/internal/handlers"
	"codeberg.org/oliverandrich/alumni-api/internal/middleware"
	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"codeberg.org/oliverandrich/alumni-api/internal/server"
	authsvc "codeberg.org/oliverandrich/alumni-api/internal/services/auth"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"codeberg.org/oliverandrich/alumni-api/internal/services/news"
	"codeberg.org/oliverandrich/alumni-api/internal/services/session"
	"codeberg.org/oliverandrich/alumni-api/internal/services/token"
	"codeberg.org/oliverandrich/alumni-api/internal/services/users"
	"codeberg.org/oliverandrich/alumni-api/internal/services/vacancies"
	"codeberg.org/oliverandrich/alumni-api/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testHashKey signs refresh cookies in tests.
const testHashKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type fixture struct {
	e      *echo.Echo
	repo   *repository.Repository
	mailer *testutil.Mailer
	tokens *token.Service
	dir    string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	imgs, dir := testutil.NewTestImages(t)

	tokens := token.NewService(config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}, token.NewSQLStore(repo))
	mailer := &testutil.Mailer{}
	cookies, err := session.NewManager(&config.CookieConfig{HashKey: testHashKey}, time.Hour)
	require.NoError(t, err)

	h := handlers.New(repo, handlers.Services{
		Auth: authsvc.NewService(repo, tokens, mailer, authsvc.Options{
			BaseURL:    "http://app.test",
			BcryptCost: bcrypt.MinCost,
			AvatarURL:  imgs.AvatarURL,
		}),
		Users:     users.NewService(repo, imgs),
		News:      news.NewService(repo, imgs),
		Vacancies: vacancies.NewService(repo, imgs),
		Images:    imgs,
		Cookies:   cookies,
	})

	e := echo.New()
	e.HTTPErrorHandler = handlers.ErrorHandler
	server.Routes(e, h, server.Guards{
		Auth:     middleware.RequireAuth(tokens),
		Admin:    middleware.RequireAdmin,
		OTPLimit: func(next echo.HandlerFunc) echo.HandlerFunc { return next },
	})

	return &fixture{e: e, repo: repo, mailer: mailer, tokens: tokens, dir: dir}
}

func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

// json sends body as JSON. A non-empty bearer is sent as access token.
func (f *fixture) json(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := testutil.NewRequest(method, path, r)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	return f.serve(req)
}

func (f *fixture) form(t *testing.T, method, path string, fields map[string]string, files []file, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	return f.serve(req)
}

// accessToken signs an access token for user.
func (f *fixture) accessToken(t *testing.T, user *models.User) string {
	t.Helper()
	pair, err := f.tokens.GeneratePair(user.Profile(nil))
	require.NoError(t, err)
	return pair.AccessToken
}

func (f *fixture) member(t *testing.T) (*models.User, string) {
	t.Helper()
	user := testutil.NewTestUser(t, f.repo, "member@example.com")
	return user, f.accessToken(t, user)
}

func (f *fixture) admin(t *testing.T) (*models.User, string) {
	t.Helper()
	user := testutil.NewTestUser(t, f.repo, "admin@example.com")
	user.IsAdmin = true
	require.NoError(t, f.repo.SaveUser(t.Context(), user))
	return user, f.accessToken(t, user)
}

type file struct {
	field    string
	filename string
	content  string
}

func multipartBody(t *testing.T, fields map[string]string, files []file) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// apiError asserts rec carries an error body with status and message.
func apiError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) handlers.APIError {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[handlers.APIError](t, rec)
	assert.Equal(t, message, body.Message)
	assert.NotNil(t, body.Errors)
	return body
}

func paths(errs []handlers.FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Path
	}
	return out
}

func TestHealth(t *testing.T) {
	f := setup(t)

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealth_DatabaseDown(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	require.NoError(t, db.Close())
	h := handlers.New(repo, handlers.Services{})

	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/health", nil)

	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unauthorized", authsvc.ErrUnauthorized, http.StatusUnauthorized, "User not authorized"},
		{"wrapped domain error", fmt.Errorf("register: %w", authsvc.ErrUserExists), http.StatusBadRequest, "User already exist"},
		{"not admin", authsvc.ErrNotAdmin, http.StatusBadRequest, "You are not a admin"},
		{"image missing", images.ErrNotFound, http.StatusNotFound, "Image not found"},
		{"news missing", news.ErrNotFound, http.StatusBadRequest, "News not found"},
		{"logo required", vacancies.ErrLogoRequired, http.StatusBadRequest, "Logo required"},
		{"echo client error", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		{"echo server error", echo.NewHTTPError(http.StatusBadGateway, "upstream"), http.StatusInternalServerError, "Unexpected error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Unexpected error"},
		{"api error", handlers.NewAPIError(http.StatusConflict, "taken"), http.StatusConflict, "taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handlers.ToAPIError(tt.err)

			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.message, got.Message)
			assert.NotNil(t, got.Errors)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	handlers.ErrorHandler(errors.New("boom"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Unexpected error","errors":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handlers.ErrorHandler(authsvc.ErrUnauthorized, e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())
}
