package repetition

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_UpdateRepetition(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid rule and raises the repeated flag", func(t *testing.T) {
		// given
		repo := NewStubRepository()
		service := NewService(repo)
		rule := "FREQ=WEEKLY;BYDAY=SA"

		// when
		err := service.UpdateRepetition(ctx, 1, &rule)

		// then
		require.NoError(t, err)
		stored, err := service.Get(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, rule, stored.Rule)
		assert.True(t, repo.Repeated[1])
	})

	t.Run("rejects garbage without storing it", func(t *testing.T) {
		// given
		repo := NewStubRepository()
		service := NewService(repo)
		rule := "EVERY=NEVER"

		// when
		err := service.UpdateRepetition(ctx, 1, &rule)

		// then
		assert.ErrorIs(t, err, ErrInvalidRule)
		stored, getErr := service.Get(ctx, 1)
		require.NoError(t, getErr)
		assert.Nil(t, stored)
	})

	t.Run("nil removes the stored rule and lowers the flag", func(t *testing.T) {
		// given
		repo := NewStubRepository()
		service := NewService(repo)
		rule := "FREQ=DAILY"
		require.NoError(t, service.UpdateRepetition(ctx, 1, &rule))

		// when
		err := service.UpdateRepetition(ctx, 1, nil)

		// then
		require.NoError(t, err)
		stored, err := service.Get(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, stored)
		assert.False(t, repo.Repeated[1])
	})

	t.Run("removing an absent rule is a no-op", func(t *testing.T) {
		// given
		service := NewService(NewStubRepository())

		// when
		err := service.UpdateRepetition(ctx, 1, nil)

		// then
		assert.NoError(t, err)
	})
}

func TestService_Expand(t *testing.T) {
	ctx := context.Background()
	anchor := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	t.Run("a weekly rule yields one occurrence per week in the window", func(t *testing.T) {
		// given
		repo := NewStubRepository()
		service := NewService(repo)
		rule := "FREQ=WEEKLY"
		require.NoError(t, service.UpdateRepetition(ctx, 1, &rule))

		// when
		occurrences, err := service.Expand(ctx, 1, anchor, anchor, anchor.AddDate(0, 0, 21))

		// then
		require.NoError(t, err)
		require.Len(t, occurrences, 4)
		assert.Equal(t, anchor, occurrences[0])
		assert.Equal(t, anchor.AddDate(0, 0, 7), occurrences[1])
	})

	t.Run("without a rule only the anchor inside the window is returned", func(t *testing.T) {
		// given
		service := NewService(NewStubRepository())

		// when
		occurrences, err := service.Expand(ctx, 1, anchor, anchor.AddDate(0, 0, -1), anchor.AddDate(0, 0, 1))

		// then
		require.NoError(t, err)
		require.Len(t, occurrences, 1)
		assert.Equal(t, anchor, occurrences[0])
	})

	t.Run("an anchor outside the window yields nothing", func(t *testing.T) {
		// given
		service := NewService(NewStubRepository())

		// when
		occurrences, err := service.Expand(ctx, 1, anchor, anchor.AddDate(0, 0, 1), anchor.AddDate(0, 0, 2))

		// then
		require.NoError(t, err)
		assert.Empty(t, occurrences)
	})
}
