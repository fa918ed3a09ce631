package retention

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/planj/planj/internal/test_utils"
	"github.com/planj/planj/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retentionFixture struct {
	db      *sql.DB
	clock   *utils.MockClock
	janitor *Janitor
}

func newRetentionFixture(t *testing.T, days int) *retentionFixture {
	t.Helper()
	db := test_utils.SetupTestDB(t)
	clock := &utils.MockClock{FixedNow: time.Date(2026, 3, 14, 4, 0, 0, 0, time.UTC)}
	return &retentionFixture{
		db:      db,
		clock:   clock,
		janitor: NewJanitor(NewRepository(db), clock, days),
	}
}

func (f *retentionFixture) insertUser(t *testing.T, email string) int {
	t.Helper()
	var id int
	err := f.db.QueryRow(
		`INSERT INTO users (uid, email, nickname, password_hash) VALUES ($1, $1, $1, 'x') RETURNING id`,
		email).Scan(&id)
	require.NoError(t, err)
	return id
}

// insertMetadata stores a metadata row, soft-deleted at the given time when
// deletedAt is non-nil.
func (f *retentionFixture) insertMetadata(t *testing.T, userId int, deletedAt *time.Time) int {
	t.Helper()
	var deletedMillis interface{}
	if deletedAt != nil {
		deletedMillis = deletedAt.UnixMilli()
	}
	var id int
	err := f.db.QueryRow(
		`INSERT INTO schedule_metadata (title, end_time, user_id, repeated, shared, deleted_at)
			VALUES ('Study', $1, $2, false, false, $3) RETURNING id`,
		f.clock.Now().UnixMilli(), userId, deletedMillis).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *retentionFixture) count(t *testing.T, table string) int {
	t.Helper()
	var count int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&count))
	return count
}

func TestJanitor_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("purges rows soft-deleted before the retention period", func(t *testing.T) {
		// given one expired and one recent soft-deleted metadata row
		f := newRetentionFixture(t, 30)
		userId := f.insertUser(t, "author@planj.io")
		expired := f.clock.Now().AddDate(0, 0, -31)
		recent := f.clock.Now().AddDate(0, 0, -5)
		f.insertMetadata(t, userId, &expired)
		f.insertMetadata(t, userId, &recent)
		f.insertMetadata(t, userId, nil)

		// when
		require.NoError(t, f.janitor.Sweep(ctx))

		// then only the expired row is gone
		assert.Equal(t, 2, f.count(t, "schedule_metadata"))
	})

	t.Run("purging metadata cascades to its schedule and location", func(t *testing.T) {
		// given an expired metadata row with dependents
		f := newRetentionFixture(t, 30)
		userId := f.insertUser(t, "author@planj.io")
		expired := f.clock.Now().AddDate(0, 0, -31)
		metadataId := f.insertMetadata(t, userId, &expired)
		_, err := f.db.Exec(
			`INSERT INTO schedule (uuid, metadata_id, end_at, failed, has_retrospective_memo, deleted_at)
				VALUES ('u1', $1, $2, false, false, $3)`,
			metadataId, f.clock.Now().UnixMilli(), expired.UnixMilli())
		require.NoError(t, err)
		_, err = f.db.Exec(
			`INSERT INTO schedule_location (metadata_id, end_place_name) VALUES ($1, 'Cafe')`, metadataId)
		require.NoError(t, err)

		// when
		require.NoError(t, f.janitor.Sweep(ctx))

		// then
		assert.Equal(t, 0, f.count(t, "schedule_metadata"))
		assert.Equal(t, 0, f.count(t, "schedule"))
		assert.Equal(t, 0, f.count(t, "schedule_location"))
	})

	t.Run("links pointing at purged metadata go with it", func(t *testing.T) {
		// given a live participation link whose author metadata expired
		f := newRetentionFixture(t, 30)
		authorId := f.insertUser(t, "author@planj.io")
		invitedId := f.insertUser(t, "friend@planj.io")
		expired := f.clock.Now().AddDate(0, 0, -31)
		authorMeta := f.insertMetadata(t, authorId, &expired)
		copyMeta := f.insertMetadata(t, invitedId, nil)
		_, err := f.db.Exec(
			`INSERT INTO participation (author_id, participant_id) VALUES ($1, $2)`, authorMeta, copyMeta)
		require.NoError(t, err)

		// when
		require.NoError(t, f.janitor.Sweep(ctx))

		// then the link is gone while the participant's own copy stays
		assert.Equal(t, 0, f.count(t, "participation"))
		assert.Equal(t, 1, f.count(t, "schedule_metadata"))
	})

	t.Run("a sweep with nothing to do leaves live rows alone", func(t *testing.T) {
		// given
		f := newRetentionFixture(t, 30)
		userId := f.insertUser(t, "author@planj.io")
		f.insertMetadata(t, userId, nil)

		// when
		require.NoError(t, f.janitor.Sweep(ctx))

		// then
		assert.Equal(t, 1, f.count(t, "schedule_metadata"))
	})
}
