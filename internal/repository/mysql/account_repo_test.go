package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"HugHub/internal/model"
)

func TestAccountTokens(t *testing.T) {
	db := newTestDB(t)
	repo := &AccountRepository{DB: db}
	ctx := context.Background()

	token := "verify-me"
	require.NoError(t, repo.Create(ctx, &model.Account{
		ID: "a", Email: "a@hughub.test", DisplayName: "Alice", PasswordHash: "h", VerificationToken: &token,
	}))

	acc, err := repo.FindByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, acc.VerificationToken)
	assert.False(t, acc.Verified)

	n, err := repo.MarkVerified(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.MarkVerified(ctx, token)
	require.NoError(t, err)
	assert.Zero(t, n)

	acc, err = repo.FindByEmail(ctx, "a@hughub.test")
	require.NoError(t, err)
	assert.True(t, acc.Verified)
	assert.Nil(t, acc.VerificationToken)

	expires := time.Now().Add(5 * time.Minute)
	require.NoError(t, repo.SetResetToken(ctx, "a", "reset-me", expires))
	acc, err = repo.FindByResetToken(ctx, "reset-me")
	require.NoError(t, err)
	require.NotNil(t, acc.ResetTokenExpires)

	n, err = repo.ResetPassword(ctx, "reset-me", "new-hash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	acc, err = repo.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", acc.PasswordHash)
	assert.Nil(t, acc.ResetToken)

	_, err = repo.FindByResetToken(ctx, "reset-me")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestAccountList(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "b", "Bob")
	seedAccount(t, db, "a", "Alice")
	repo := &AccountRepository{DB: db}
	ctx := context.Background()

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].DisplayName)

	rest, err := repo.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "b", rest[0].ID)

	s, err := repo.Summary(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b@hughub.test", s.Email)

	_, err = repo.Summary(ctx, "ghost")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestProfileSaveUpserts(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "a", "Alice")
	repo := &ProfileRepository{DB: db}
	ctx := context.Background()

	view, err := repo.Find(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Alice", view.Name)
	assert.Empty(t, view.Gender)

	found, err := repo.Save(ctx, "a", "Alicia", &model.Profile{Gender: "Female", Location: "Porto"})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Save(ctx, "a", "Alicia", &model.Profile{Gender: "Other", Location: "Braga"})
	require.NoError(t, err)
	assert.True(t, found)

	view, err = repo.Find(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", view.Name)
	assert.Equal(t, "Other", view.Gender)
	assert.Equal(t, "Braga", view.Location)
	assert.Equal(t, int64(1), count(t, db, &model.Profile{}, "account_id = ?", "a"))

	found, err = repo.Save(ctx, "ghost", "Nobody", &model.Profile{Gender: "Male", Location: "Faro"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, count(t, db, &model.Profile{}, "account_id = ?", "ghost"))

	_, err = repo.Find(ctx, "ghost")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
