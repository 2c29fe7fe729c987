// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"codeberg.org/oliverandrich/alumni-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := &models.User{
		Email:          "ann@example.com",
		PasswordHash:   "hash",
		Name:           "Ann",
		Surname:        "Lee",
		PhoneNumber:    "+1000",
		ActivationLink: ptr("link-1"),
	}

	err := repo.CreateUser(ctx, user)

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Minute)

	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", stored.Email)
	assert.Equal(t, "hash", stored.PasswordHash)
	assert.False(t, stored.IsActivated)
	assert.False(t, stored.IsAdmin)
	require.NotNil(t, stored.ActivationLink)
	assert.Equal(t, "link-1", *stored.ActivationLink)
	assert.Nil(t, stored.ResetCode)
	assert.Nil(t, stored.YearOfRelease)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	testutil.NewTestUser(t, repo, "ann@example.com")

	err := repo.CreateUser(ctx, &models.User{Email: "ann@example.com", PasswordHash: "x", Name: "A", Surname: "B"})

	assert.Error(t, err)
}

func TestGetUserByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	created := testutil.NewTestUser(t, repo, "ann@example.com")

	user, err := repo.GetUserByEmail(ctx, "ann@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByID(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByActivationLink(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := &models.User{Email: "ann@example.com", PasswordHash: "x", Name: "Ann", Surname: "Lee", ActivationLink: ptr("abc")}
	require.NoError(t, repo.CreateUser(ctx, user))

	found, err := repo.GetUserByActivationLink(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetUserByActivationLink(ctx, "other")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSaveUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "ann@example.com")

	user.ResetCode = ptr("012345")
	user.PasswordHash = "new-hash"
	user.Specialty = ptr("Врач")
	user.YearOfRelease = ptr(2019)
	require.NoError(t, repo.SaveUser(ctx, user))

	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetCode)
	assert.Equal(t, "012345", *stored.ResetCode)
	assert.Equal(t, "new-hash", stored.PasswordHash)
	assert.Equal(t, "Врач", *stored.Specialty)
	assert.Equal(t, 2019, *stored.YearOfRelease)

	stored.ResetCode = nil
	require.NoError(t, repo.SaveUser(ctx, stored))

	cleared, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.ResetCode)
}

func TestSaveUser_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	err := repo.SaveUser(context.Background(), &models.User{ID: "missing"})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCountAdmins(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	count, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	user := testutil.NewTestUser(t, repo, "admin@example.com")
	user.IsAdmin = true
	require.NoError(t, repo.SaveUser(ctx, user))

	count, err = repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListUsers(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := range 5 {
		u := &models.User{
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: "x",
			Name:         fmt.Sprintf("Name%d", i),
			Surname:      "S",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if i%2 == 0 {
			u.Specialty = ptr("Врач")
		}
		require.NoError(t, repo.CreateUser(ctx, u))
	}
	admin := &models.User{Email: "admin@example.com", PasswordHash: "x", Name: "Admin", Surname: "A", IsAdmin: true}
	require.NoError(t, repo.CreateUser(ctx, admin))

	users, total, err := repo.ListUsers(ctx, repository.UserFilter{}, models.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, users, 2)
	assert.Equal(t, "Name4", users[0].Name)
	assert.Equal(t, "Name3", users[1].Name)

	users, _, err = repo.ListUsers(ctx, repository.UserFilter{}, models.PageRequest{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Name0", users[0].Name)
}

func TestListUsers_Filters(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	users := []*models.User{
		{Email: "a@example.com", Name: "Alice", Surname: "A", PasswordHash: "x", Specialty: ptr("Врач"), YearOfRelease: ptr(2020)},
		{Email: "b@example.com", Name: "Bob", Surname: "B", PasswordHash: "x", Education: ptr("Магистратура"), YearOfRelease: ptr(2021)},
		{Email: "c@example.com", Name: "Malice_1", Surname: "C", PasswordHash: "x", Specialty: ptr("Врач"), YearOfRelease: ptr(2021)},
	}
	for _, u := range users {
		require.NoError(t, repo.CreateUser(ctx, u))
	}

	tests := []struct {
		name     string
		filter   repository.UserFilter
		expected int64
	}{
		{"name case-insensitive", repository.UserFilter{Name: "ALIC"}, 2},
		{"underscore is literal", repository.UserFilter{Name: "e_1"}, 1},
		{"year", repository.UserFilter{YearOfRelease: 2021}, 2},
		{"specialty", repository.UserFilter{Specialty: "Врач"}, 2},
		{"education", repository.UserFilter{Education: "Магистратура"}, 1},
		{"combined", repository.UserFilter{Specialty: "Врач", YearOfRelease: 2021}, 1},
		{"no match", repository.UserFilter{Name: "zzz"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, total, err := repo.ListUsers(ctx, tt.filter, models.PageRequest{Page: 1, Limit: 10})

			require.NoError(t, err)
			assert.Equal(t, tt.expected, total)
			assert.Len(t, found, int(tt.expected))
		})
	}
}
