package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/planj/planj/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	endAt := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	t.Run("round-trips metadata and schedule", func(t *testing.T) {
		// given
		db := test_utils.SetupTestDB(t)
		repo := NewRepository(db)
		userId := insertTestUser(t, db, "author@planj.io")

		// when
		metadataId, err := repo.AddMetadata(ctx, Metadata{Title: "Study", Description: "chapter 3", EndTime: endAt, UserId: userId})
		require.NoError(t, err)
		scheduleUuid, err := repo.AddSchedule(ctx, metadataId, nil, endAt)
		require.NoError(t, err)

		// then
		meta, err := repo.GetMetadata(ctx, metadataId)
		require.NoError(t, err)
		assert.Equal(t, "Study", meta.Title)
		assert.Equal(t, "chapter 3", meta.Description)
		assert.Nil(t, meta.StartTime)
		assert.Equal(t, endAt, meta.EndTime.UTC())

		stored, err := repo.GetByUuid(ctx, scheduleUuid)
		require.NoError(t, err)
		assert.Equal(t, metadataId, stored.MetadataId)
		assert.Nil(t, stored.StartAt)
		assert.Equal(t, endAt, stored.EndAt.UTC())
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		// given
		db := test_utils.SetupTestDB(t)
		repo := NewRepository(db)
		userId := insertTestUser(t, db, "author@planj.io")

		// when the callback fails after an insert
		err := repo.WithTransaction(ctx, func(txRepo Repository) error {
			_, err := txRepo.AddMetadata(ctx, Metadata{Title: "Study", EndTime: endAt, UserId: userId})
			require.NoError(t, err)
			return assert.AnError
		})

		// then nothing was stored
		require.ErrorIs(t, err, assert.AnError)
		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schedule_metadata`).Scan(&count))
		assert.Equal(t, 0, count)
	})

	t.Run("soft-deleted rows disappear from lookups", func(t *testing.T) {
		// given
		db := test_utils.SetupTestDB(t)
		repo := NewRepository(db)
		userId := insertTestUser(t, db, "author@planj.io")
		metadataId, err := repo.AddMetadata(ctx, Metadata{Title: "Study", EndTime: endAt, UserId: userId})
		require.NoError(t, err)
		scheduleUuid, err := repo.AddSchedule(ctx, metadataId, nil, endAt)
		require.NoError(t, err)

		// when
		deletedMetadataId, err := repo.SoftDeleteByUuid(ctx, scheduleUuid)
		require.NoError(t, err)
		require.Equal(t, metadataId, deletedMetadataId)
		require.NoError(t, repo.SoftDeleteMetadata(ctx, metadataId))

		// then lookups miss while the rows themselves survive
		_, err = repo.GetByUuid(ctx, scheduleUuid)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
		_, err = repo.GetMetadata(ctx, metadataId)
		assert.ErrorIs(t, err, ErrMetadataNotFound)
		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schedule WHERE deleted_at IS NOT NULL`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("GetViews returns window overlaps with locations attached", func(t *testing.T) {
		// given one schedule with a location and one on another day
		db := test_utils.SetupTestDB(t)
		repo := NewRepository(db)
		locations := NewLocationService(NewLocationRepo(db))
		userId := insertTestUser(t, db, "author@planj.io")

		inWindowId, err := repo.AddMetadata(ctx, Metadata{Title: "Study", EndTime: endAt, UserId: userId})
		require.NoError(t, err)
		_, err = repo.AddSchedule(ctx, inWindowId, nil, endAt)
		require.NoError(t, err)
		require.NoError(t, locations.UpdateLocation(ctx, inWindowId, nil,
			&Place{Name: "Cafe", Address: "1 Main St", Latitude: 37.5, Longitude: 127.0}))

		outOfWindowId, err := repo.AddMetadata(ctx, Metadata{Title: "Gym", EndTime: endAt.AddDate(0, 0, 2), UserId: userId})
		require.NoError(t, err)
		_, err = repo.AddSchedule(ctx, outOfWindowId, nil, endAt.AddDate(0, 0, 2))
		require.NoError(t, err)

		// when
		dayStart := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		views, err := repo.GetViews(ctx, userId, dayStart, dayStart.AddDate(0, 0, 1))

		// then
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Study", views[0].Title)
		require.NotNil(t, views[0].Location)
		require.NotNil(t, views[0].Location.End)
		assert.Equal(t, "Cafe", views[0].Location.End.Name)
		assert.Nil(t, views[0].Location.Start)
	})

	t.Run("GetViews never returns other users' schedules", func(t *testing.T) {
		// given
		db := test_utils.SetupTestDB(t)
		repo := NewRepository(db)
		owner := insertTestUser(t, db, "owner@planj.io")
		other := insertTestUser(t, db, "other@planj.io")
		metadataId, err := repo.AddMetadata(ctx, Metadata{Title: "Study", EndTime: endAt, UserId: owner})
		require.NoError(t, err)
		_, err = repo.AddSchedule(ctx, metadataId, nil, endAt)
		require.NoError(t, err)

		// when
		dayStart := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		views, err := repo.GetViews(ctx, other, dayStart, dayStart.AddDate(0, 0, 1))

		// then
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}

func TestLocationService_UpdateLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("no end place removes an existing record", func(t *testing.T) {
		// given a stored location
		db := test_utils.SetupTestDB(t)
		repo := NewRepository(db)
		locations := NewLocationService(NewLocationRepo(db))
		userId := insertTestUser(t, db, "author@planj.io")
		metadataId, err := repo.AddMetadata(ctx, Metadata{Title: "Study", EndTime: time.Now(), UserId: userId})
		require.NoError(t, err)
		require.NoError(t, locations.UpdateLocation(ctx, metadataId,
			&Place{Name: "Home", Latitude: 37.4, Longitude: 126.9},
			&Place{Name: "Cafe", Latitude: 37.5, Longitude: 127.0}))

		// when
		require.NoError(t, locations.UpdateLocation(ctx, metadataId, nil, nil))

		// then
		location, err := locations.Get(ctx, metadataId)
		require.NoError(t, err)
		assert.Nil(t, location)
	})

	t.Run("a start place alone is never kept", func(t *testing.T) {
		// given
		db := test_utils.SetupTestDB(t)
		repo := NewRepository(db)
		locations := NewLocationService(NewLocationRepo(db))
		userId := insertTestUser(t, db, "author@planj.io")
		metadataId, err := repo.AddMetadata(ctx, Metadata{Title: "Study", EndTime: time.Now(), UserId: userId})
		require.NoError(t, err)

		// when
		err = locations.UpdateLocation(ctx, metadataId, &Place{Name: "Home", Latitude: 37.4, Longitude: 126.9}, nil)

		// then
		require.NoError(t, err)
		location, err := locations.Get(ctx, metadataId)
		require.NoError(t, err)
		assert.Nil(t, location)
	})

	t.Run("upsert replaces the previous places", func(t *testing.T) {
		// given
		db := test_utils.SetupTestDB(t)
		repo := NewRepository(db)
		locations := NewLocationService(NewLocationRepo(db))
		userId := insertTestUser(t, db, "author@planj.io")
		metadataId, err := repo.AddMetadata(ctx, Metadata{Title: "Study", EndTime: time.Now(), UserId: userId})
		require.NoError(t, err)
		require.NoError(t, locations.UpdateLocation(ctx, metadataId, nil, &Place{Name: "Cafe", Latitude: 37.5, Longitude: 127.0}))

		// when
		err = locations.UpdateLocation(ctx, metadataId,
			&Place{Name: "Home", Latitude: 37.4, Longitude: 126.9},
			&Place{Name: "Library", Latitude: 37.6, Longitude: 127.1})

		// then
		require.NoError(t, err)
		location, err := locations.Get(ctx, metadataId)
		require.NoError(t, err)
		require.NotNil(t, location)
		assert.Equal(t, "Library", location.End.Name)
		require.NotNil(t, location.Start)
		assert.Equal(t, "Home", location.Start.Name)
	})
}
