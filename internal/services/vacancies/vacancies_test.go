// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package vacancies_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"codeberg.org/oliverandrich/alumni-api/internal/services/vacancies"
	"codeberg.org/oliverandrich/alumni-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*vacancies.Service, *repository.Repository, string) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	imgs, dir := testutil.NewTestImages(t)
	return vacancies.NewService(repo, imgs), repo, filepath.Join(dir, "companyLogos")
}

func logos(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func createParams() vacancies.CreateParams {
	return vacancies.CreateParams{
		CompanyName:  "Acme",
		Salary:       "1000",
		Requirements: "Go",
		Position:     "Backend developer",
		Contacts:     []models.Contact{{Telegram: "@acme", Email: "jobs@acme.test"}},
		Logo:         testutil.Upload("acme logo.png", "logo"),
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _, dir := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createParams())
	require.NoError(t, err)

	assert.Contains(t, created.CompanyLogo, testutil.TestAPIURL+"/api/images/companyLogos/companyLogos-")
	assert.Contains(t, created.CompanyLogo, "-acmelogo.png")
	assert.Equal(t, 1, logos(t, dir))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, []models.Contact{{Telegram: "@acme", Email: "jobs@acme.test"}}, got.Contacts)
	assert.Equal(t, models.NotUpdatedYet, got.UpdatedBy)
}

func TestCreate_LogoRequired(t *testing.T) {
	svc, _, _ := setup(t)
	p := createParams()
	p.Logo = nil

	_, err := svc.Create(context.Background(), p)

	assert.ErrorIs(t, err, vacancies.ErrLogoRequired)
	assert.EqualError(t, err, "Logo required")
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Get(context.Background(), "missing")

	assert.EqualError(t, err, "Vacancy not found")
}

func TestUpdate(t *testing.T) {
	svc, repo, dir := setup(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, createParams())
	require.NoError(t, err)
	before, err := repo.GetVacancy(ctx, created.ID)
	require.NoError(t, err)

	at := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return at })
	salary := "2000"

	view, err := svc.Update(ctx, created.ID, vacancies.UpdateParams{
		Salary: &salary,
		Logo:   testutil.Upload("new.png", "new"),
		Editor: "admin@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "2000", view.Salary)
	assert.Equal(t, "Acme", view.CompanyName)
	assert.Equal(t, "admin@example.com", view.UpdatedBy)
	require.NotNil(t, view.LastUpdate)
	assert.True(t, at.Equal(*view.LastUpdate))

	after, err := repo.GetVacancy(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, before.CompanyLogo, after.CompanyLogo)
	assert.NoFileExists(t, filepath.Join(dir, before.CompanyLogo))
	assert.FileExists(t, filepath.Join(dir, after.CompanyLogo))
}

func TestUpdate_KeepsLogo(t *testing.T) {
	svc, _, dir := setup(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, createParams())
	require.NoError(t, err)

	view, err := svc.Update(ctx, created.ID, vacancies.UpdateParams{Editor: "admin@example.com"})
	require.NoError(t, err)

	assert.Equal(t, created.CompanyLogo, view.CompanyLogo)
	assert.Equal(t, 1, logos(t, dir))
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, dir := setup(t)

	_, err := svc.Update(context.Background(), "missing", vacancies.UpdateParams{Logo: testutil.Upload("x.png", "x")})

	assert.ErrorIs(t, err, vacancies.ErrNotFound)
	assert.Equal(t, 0, logos(t, dir))
}

func TestDelete(t *testing.T) {
	svc, _, dir := setup(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, createParams())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	assert.Equal(t, 0, logos(t, dir))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), vacancies.ErrNotFound)
}

func TestList(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	for range 3 {
		_, err := svc.Create(ctx, createParams())
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, models.PageRequest{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Results, 3)
}
