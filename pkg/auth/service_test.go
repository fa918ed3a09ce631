package auth

import (
	"context"
	"testing"
	"time"

	"github.com/planj/planj/internal/utils"
	"github.com/planj/planj/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*ServiceImpl, *utils.MockClock) {
	t.Helper()
	users := user.NewUserService(user.NewStubUserRepository())
	clock := &utils.MockClock{FixedNow: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	return NewService(users, NewStubSessionRepo(), clock), clock
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and opens a session", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)

		// when
		created, token, err := service.Register(ctx, "me@planj.io", "s3cret", "Me")

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, created.Uid)
		assert.Equal(t, "me@planj.io", created.Email)
		assert.NotEqual(t, "s3cret", created.PasswordHash)

		authenticated, err := service.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, created.Id, authenticated.Id)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)
		_, _, err := service.Register(ctx, "me@planj.io", "s3cret", "Me")
		require.NoError(t, err)

		// when
		_, _, err = service.Register(ctx, "me@planj.io", "other", "Someone")

		// then
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)

		// when
		_, _, err := service.Register(ctx, "", "", "Me")

		// then
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a fresh token for valid credentials", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)
		created, _, err := service.Register(ctx, "me@planj.io", "s3cret", "Me")
		require.NoError(t, err)

		// when
		token, err := service.Login(ctx, "me@planj.io", "s3cret")

		// then
		require.NoError(t, err)
		authenticated, err := service.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, created.Id, authenticated.Id)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)
		_, _, err := service.Register(ctx, "me@planj.io", "s3cret", "Me")
		require.NoError(t, err)

		// when
		_, err = service.Login(ctx, "me@planj.io", "wrong")

		// then
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("an unknown email looks like a wrong password", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)

		// when
		_, err := service.Login(ctx, "nobody@planj.io", "s3cret")

		// then
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an expired session", func(t *testing.T) {
		// given a session past its TTL
		service, clock := newAuthFixture(t)
		_, token, err := service.Register(ctx, "me@planj.io", "s3cret", "Me")
		require.NoError(t, err)
		clock.SetNow(clock.Now().Add(25 * time.Hour))

		// when
		_, err = service.Authenticate(ctx, token)

		// then the session is gone for good
		assert.ErrorIs(t, err, ErrInvalidToken)
		clock.SetNow(clock.Now().Add(-25 * time.Hour))
		_, err = service.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)

		// when
		_, err := service.Authenticate(ctx, "not-a-token")

		// then
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("invalidates the session", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)
		_, token, err := service.Register(ctx, "me@planj.io", "s3cret", "Me")
		require.NoError(t, err)

		// when
		require.NoError(t, service.Logout(ctx, token))

		// then
		_, err = service.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies the password and removes the account with its sessions", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)
		_, token, err := service.Register(ctx, "me@planj.io", "s3cret", "Me")
		require.NoError(t, err)

		// when
		err = service.DeleteAccount(ctx, "me@planj.io", "s3cret")

		// then
		require.NoError(t, err)
		_, err = service.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = service.Login(ctx, "me@planj.io", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		// given
		service, _ := newAuthFixture(t)
		_, _, err := service.Register(ctx, "me@planj.io", "s3cret", "Me")
		require.NoError(t, err)

		// when
		err = service.DeleteAccount(ctx, "me@planj.io", "wrong")

		// then
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
