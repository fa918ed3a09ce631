package user

import (
	"context"
	"testing"

	"github.com/planj/planj/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and finds a user by id, uid and email", func(t *testing.T) {
		// given
		db := test_utils.SetupTestDB(t)
		repo := NewUserRepo(db)

		// when
		id, err := repo.CreateUser(ctx, User{Uid: "uid-1", Email: "me@planj.io", Nickname: "Me", PasswordHash: "hash"})
		require.NoError(t, err)

		// then
		byId, err := repo.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "me@planj.io", byId.Email)
		assert.Equal(t, "Me", byId.Nickname)

		byUid, err := repo.GetUserByUid(ctx, "uid-1")
		require.NoError(t, err)
		assert.Equal(t, id, byUid.Id)

		byEmail, err := repo.GetUserByEmail(ctx, "me@planj.io")
		require.NoError(t, err)
		assert.Equal(t, id, byEmail.Id)
	})

	t.Run("missing users yield ErrUserNotFound", func(t *testing.T) {
		// given
		db := test_utils.SetupTestDB(t)
		repo := NewUserRepo(db)

		// when / then
		_, err := repo.GetUser(ctx, 42)
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = repo.GetUserByEmail(ctx, "nobody@planj.io")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("deleting a user removes the row", func(t *testing.T) {
		// given
		db := test_utils.SetupTestDB(t)
		repo := NewUserRepo(db)
		id, err := repo.CreateUser(ctx, User{Uid: "uid-1", Email: "me@planj.io", PasswordHash: "hash"})
		require.NoError(t, err)

		// when
		require.NoError(t, repo.DeleteUser(ctx, id))

		// then
		_, err = repo.GetUser(ctx, id)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
