package friend

import (
	"context"
	"testing"

	"github.com/planj/planj/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFriendFixture(t *testing.T, emails ...string) (*ServiceImpl, context.Context) {
	t.Helper()
	users := user.NewUserService(user.NewStubUserRepository())
	var first user.User
	for i, email := range emails {
		created, err := users.CreateUser(context.Background(), user.User{Uid: email, Email: email, Nickname: email})
		require.NoError(t, err)
		if i == 0 {
			first = created
		}
	}
	service := NewService(NewStubRepository(), users)
	return service, user.WithUser(context.Background(), first)
}

func TestService_Add(t *testing.T) {
	t.Run("creates a one-directional edge", func(t *testing.T) {
		// given
		service, ctx := newFriendFixture(t, "me@planj.io", "friend@planj.io")

		// when
		added, err := service.Add(ctx, "friend@planj.io")

		// then
		require.NoError(t, err)
		assert.Equal(t, "friend@planj.io", added.Email)
		friends, err := service.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, "friend@planj.io", friends[0].Email)
	})

	t.Run("rejects adding yourself", func(t *testing.T) {
		// given
		service, ctx := newFriendFixture(t, "me@planj.io")

		// when
		_, err := service.Add(ctx, "me@planj.io")

		// then
		assert.ErrorIs(t, err, ErrSelfFriend)
	})

	t.Run("rejects adding the same friend twice", func(t *testing.T) {
		// given
		service, ctx := newFriendFixture(t, "me@planj.io", "friend@planj.io")
		_, err := service.Add(ctx, "friend@planj.io")
		require.NoError(t, err)

		// when
		_, err = service.Add(ctx, "friend@planj.io")

		// then
		assert.ErrorIs(t, err, ErrAlreadyFriends)
	})

	t.Run("rejects unknown emails", func(t *testing.T) {
		// given
		service, ctx := newFriendFixture(t, "me@planj.io")

		// when
		_, err := service.Add(ctx, "nobody@planj.io")

		// then
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("removes the edge", func(t *testing.T) {
		// given
		service, ctx := newFriendFixture(t, "me@planj.io", "friend@planj.io")
		_, err := service.Add(ctx, "friend@planj.io")
		require.NoError(t, err)

		// when
		err = service.Delete(ctx, "friend@planj.io")

		// then
		require.NoError(t, err)
		friends, err := service.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, friends)
	})

	t.Run("deleting a non-friend fails", func(t *testing.T) {
		// given
		service, ctx := newFriendFixture(t, "me@planj.io", "friend@planj.io")

		// when
		err := service.Delete(ctx, "friend@planj.io")

		// then
		assert.ErrorIs(t, err, ErrNotFriends)
	})
}
