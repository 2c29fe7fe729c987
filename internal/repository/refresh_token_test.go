// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"codeberg.org/oliverandrich/alumni-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertRefreshToken_Create(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "ann@example.com")

	err := repo.UpsertRefreshToken(ctx, user.ID, "token-1")

	require.NoError(t, err)
	rt, err := repo.GetRefreshToken(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, rt.UserID)
	assert.Equal(t, "token-1", rt.Token)
}

func TestUpsertRefreshToken_ReplacesPrevious(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "ann@example.com")

	require.NoError(t, repo.UpsertRefreshToken(ctx, user.ID, "token-1"))
	require.NoError(t, repo.UpsertRefreshToken(ctx, user.ID, "token-2"))

	_, err := repo.GetRefreshToken(ctx, "token-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	rt, err := repo.GetRefreshToken(ctx, "token-2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, rt.UserID)

	var count int
	require.NoError(t, repo.DB().Get(&count, "SELECT count(*) FROM refresh_tokens"))
	assert.Equal(t, 1, count)
}

func TestUpsertRefreshToken_PerUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	ann := testutil.NewTestUser(t, repo, "ann@example.com")
	bob := testutil.NewTestUser(t, repo, "bob@example.com")

	require.NoError(t, repo.UpsertRefreshToken(ctx, ann.ID, "ann-token"))
	require.NoError(t, repo.UpsertRefreshToken(ctx, bob.ID, "bob-token"))

	_, err := repo.GetRefreshToken(ctx, "ann-token")
	assert.NoError(t, err)
	_, err = repo.GetRefreshToken(ctx, "bob-token")
	assert.NoError(t, err)
}

func TestGetRefreshToken_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetRefreshToken(context.Background(), "nope")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteRefreshToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "ann@example.com")
	require.NoError(t, repo.UpsertRefreshToken(ctx, user.ID, "token-1"))

	require.NoError(t, repo.DeleteRefreshToken(ctx, "token-1"))

	_, err := repo.GetRefreshToken(ctx, "token-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, repo.DeleteRefreshToken(ctx, "token-1"))
}
