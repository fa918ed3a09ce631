package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/planj/planj/pkg/repetition"
	"github.com/planj/planj/pkg/schedule"
	"github.com/planj/planj/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ExportICal(t *testing.T) {
	endAt := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	from := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	newFixture := func(t *testing.T) (*ServiceImpl, *schedule.StubScheduleRepository, repetition.Service, context.Context) {
		t.Helper()
		schedules := schedule.NewStubScheduleRepository()
		repetitions := repetition.NewService(repetition.NewStubRepository())
		service := NewService(schedules, repetitions)
		ctx := user.WithUser(context.Background(), user.User{Id: 1, Email: "author@planj.io"})
		return service, schedules, repetitions, ctx
	}

	t.Run("renders one VEVENT per schedule in the window", func(t *testing.T) {
		// given
		service, schedules, _, ctx := newFixture(t)
		metadataId, err := schedules.AddMetadata(ctx, schedule.Metadata{Title: "Study", Description: "chapter 3", EndTime: endAt, UserId: 1})
		require.NoError(t, err)
		_, err = schedules.AddSchedule(ctx, metadataId, nil, endAt)
		require.NoError(t, err)

		// when
		document, err := service.ExportICal(ctx, from, to)

		// then
		require.NoError(t, err)
		assert.Contains(t, document, "BEGIN:VCALENDAR")
		assert.Contains(t, document, "SUMMARY:Study")
		assert.Contains(t, document, "DESCRIPTION:chapter 3")
		assert.Equal(t, 1, strings.Count(document, "BEGIN:VEVENT"))
	})

	t.Run("attaches the RRULE of repeated schedules", func(t *testing.T) {
		// given
		service, schedules, repetitions, ctx := newFixture(t)
		metadataId, err := schedules.AddMetadata(ctx, schedule.Metadata{Title: "Gym", EndTime: endAt, UserId: 1, Repeated: true})
		require.NoError(t, err)
		_, err = schedules.AddSchedule(ctx, metadataId, nil, endAt)
		require.NoError(t, err)
		rule := "FREQ=WEEKLY;BYDAY=SA"
		require.NoError(t, repetitions.UpdateRepetition(ctx, metadataId, &rule))

		// when
		document, err := service.ExportICal(ctx, from, to)

		// then
		require.NoError(t, err)
		assert.Contains(t, document, "RRULE:FREQ=WEEKLY;BYDAY=SA")
	})

	t.Run("schedules outside the window are not exported", func(t *testing.T) {
		// given
		service, schedules, _, ctx := newFixture(t)
		metadataId, err := schedules.AddMetadata(ctx, schedule.Metadata{Title: "NextMonth", EndTime: endAt.AddDate(0, 1, 0), UserId: 1})
		require.NoError(t, err)
		_, err = schedules.AddSchedule(ctx, metadataId, nil, endAt.AddDate(0, 1, 0))
		require.NoError(t, err)

		// when
		document, err := service.ExportICal(ctx, from, to)

		// then
		require.NoError(t, err)
		assert.NotContains(t, document, "BEGIN:VEVENT")
	})

	t.Run("fails without an authenticated user", func(t *testing.T) {
		// given
		service, _, _, _ := newFixture(t)

		// when
		_, err := service.ExportICal(context.Background(), from, to)

		// then
		assert.Error(t, err)
	})
}
