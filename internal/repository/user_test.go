// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/authflow/authflow/internal/repository"
	"github.com/authflow/authflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "user@example.com", "Jane", "hashvalue")

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "Jane", user.DisplayName)
	assert.Equal(t, "hashvalue", user.PasswordHash)
	assert.Nil(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpiry)
	assert.NotZero(t, user.CreatedAt)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, "user@example.com", "", "hash1")
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, "user@example.com", "", "hash2")

	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestCreateUser_DuplicateEmailCaseInsensitive(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, "a@b.com", "", "hash1")
	require.NoError(t, err)

	// The email column collates NOCASE, so even an un-normalized email
	// cannot create a second record.
	_, err = repo.CreateUser(ctx, "A@B.com", "", "hash2")

	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestGetUserByID(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestUser(t, repo, "user@example.com", "secret123")

	retrieved, err := repo.GetUserByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
	assert.Equal(t, created.Email, retrieved.Email)
}

func TestGetUserByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByID(context.Background(), 999)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestUser(t, repo, "user@example.com", "secret123")

	retrieved, err := repo.GetUserByEmail(ctx, "user@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateDisplayName(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")

	err := repo.UpdateDisplayName(ctx, user.ID, "New Name")
	require.NoError(t, err)

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.DisplayName)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)
}

func TestUpdateDisplayName_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	err := repo.UpdateDisplayName(context.Background(), 999, "Name")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")

	err := repo.UpdatePassword(ctx, user.ID, "newhash")
	require.NoError(t, err)

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", updated.PasswordHash)
}

func TestSetResetToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")
	expiry := time.Now().Add(15 * time.Minute)

	err := repo.SetResetToken(ctx, user.ID, "token-1", expiry)
	require.NoError(t, err)

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ResetToken)
	require.NotNil(t, updated.ResetTokenExpiry)
	assert.Equal(t, "token-1", *updated.ResetToken)
	assert.WithinDuration(t, expiry, *updated.ResetTokenExpiry, time.Second)
}

func TestSetResetToken_OverwritesPending(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")

	require.NoError(t, repo.SetResetToken(ctx, user.ID, "token-old", now.Add(15*time.Minute)))
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "token-new", now.Add(15*time.Minute)))

	// The old token is invalid the moment the new one is stored.
	_, err := repo.GetUserByResetToken(ctx, "token-old", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	found, err := repo.GetUserByResetToken(ctx, "token-new", now)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestGetUserByResetToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "token-1", now.Add(15*time.Minute)))

	found, err := repo.GetUserByResetToken(ctx, "token-1", now)

	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.Email, found.Email)
}

func TestGetUserByResetToken_Expired(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "token-1", now.Add(15*time.Minute)))

	// The stored-but-expired pair is absent for all read paths.
	_, err := repo.GetUserByResetToken(ctx, "token-1", now.Add(16*time.Minute))

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByResetToken_ExactExpiryInstant(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()
	expiry := now.Add(15 * time.Minute)

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "token-1", expiry))

	// Strict comparison: at the exact expiry instant the token is expired.
	_, err := repo.GetUserByResetToken(ctx, "token-1", expiry)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConsumeResetToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "token-1", now.Add(15*time.Minute)))

	claimed, err := repo.ConsumeResetToken(ctx, "token-1", now, "newhash")

	require.NoError(t, err)
	assert.True(t, claimed)

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", updated.PasswordHash)
	assert.Nil(t, updated.ResetToken)
	assert.Nil(t, updated.ResetTokenExpiry)
}

func TestConsumeResetToken_SecondCallLoses(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "token-1", now.Add(15*time.Minute)))

	claimed, err := repo.ConsumeResetToken(ctx, "token-1", now, "hash-a")
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = repo.ConsumeResetToken(ctx, "token-1", now, "hash-b")
	require.NoError(t, err)
	assert.False(t, claimed)

	// The winner's hash sticks.
	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-a", updated.PasswordHash)
}

func TestConsumeResetToken_Expired(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	user := testutil.NewTestUser(t, repo, "user@example.com", "secret123")
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "token-1", now.Add(15*time.Minute)))

	claimed, err := repo.ConsumeResetToken(ctx, "token-1", now.Add(20*time.Minute), "newhash")

	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestCountUsers(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	testutil.NewTestUser(t, repo, "a@example.com", "secret123")
	testutil.NewTestUser(t, repo, "b@example.com", "secret123")

	count, err = repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
