package retention

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Repository permanently removes rows whose soft-delete timestamp is older
// than a cutoff. Dependent rows go first so that foreign keys stay intact
// mid-sweep.
type Repository interface {
	PurgeParticipations(ctx context.Context, cutoffMillis int64) (int64, error)
	PurgeSchedules(ctx context.Context, cutoffMillis int64) (int64, error)
	PurgeMetadata(ctx context.Context, cutoffMillis int64) (int64, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) PurgeParticipations(ctx context.Context, cutoffMillis int64) (int64, error) {
	// Links referencing metadata about to be purged must go along with the
	// expired links themselves.
	query := `DELETE FROM participation
				WHERE (deleted_at IS NOT NULL AND deleted_at < $1)
					OR author_id IN (SELECT id FROM schedule_metadata WHERE deleted_at IS NOT NULL AND deleted_at < $1)
					OR participant_id IN (SELECT id FROM schedule_metadata WHERE deleted_at IS NOT NULL AND deleted_at < $1)`
	return r.purge(ctx, query, cutoffMillis)
}

func (r *RepositoryImpl) PurgeSchedules(ctx context.Context, cutoffMillis int64) (int64, error) {
	query := `DELETE FROM schedule WHERE deleted_at IS NOT NULL AND deleted_at < $1`
	return r.purge(ctx, query, cutoffMillis)
}

// PurgeMetadata cascades to the metadata's schedules, location and
// repetition rule through the schema's foreign keys.
func (r *RepositoryImpl) PurgeMetadata(ctx context.Context, cutoffMillis int64) (int64, error) {
	query := `DELETE FROM schedule_metadata WHERE deleted_at IS NOT NULL AND deleted_at < $1`
	return r.purge(ctx, query, cutoffMillis)
}

func (r *RepositoryImpl) purge(ctx context.Context, query string, cutoffMillis int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, cutoffMillis)
	if err != nil {
		err := fmt.Errorf("could not purge expired rows: %w", err)
		log.Error(err)
		return 0, err
	}
	return result.RowsAffected()
}
