package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error

	AddMetadata(ctx context.Context, m Metadata) (int, error)
	GetMetadata(ctx context.Context, id int) (Metadata, error)
	UpdateMetadata(ctx context.Context, id int, m Metadata) error
	SetShared(ctx context.Context, id int) error
	SoftDeleteMetadata(ctx context.Context, id int) error

	AddSchedule(ctx context.Context, metadataId int, startAt *time.Time, endAt time.Time) (string, error)
	GetByUuid(ctx context.Context, scheduleUuid string) (Schedule, error)
	GetMetadataIdByUuid(ctx context.Context, scheduleUuid string) (int, error)
	GetFirstUuidByMetadataId(ctx context.Context, metadataId int) (string, error)
	UpdateSchedule(ctx context.Context, scheduleUuid string, startAt *time.Time, endAt time.Time) error
	SoftDeleteByUuid(ctx context.Context, scheduleUuid string) (int, error)

	GetViews(ctx context.Context, userId int, from, to time.Time) ([]View, error)
}

type RepositoryImpl struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db, tx: nil}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *RepositoryImpl) getQueryer() interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// The Rollback will be a no-op if the transaction was already committed
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &RepositoryImpl{db: r.db, tx: tx}

	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *RepositoryImpl) AddMetadata(ctx context.Context, m Metadata) (int, error) {
	query := `INSERT INTO schedule_metadata (title, description, start_time, end_time, user_id, category_id, repeated, shared)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	var id int
	err := r.getQueryer().QueryRowContext(ctx, query,
		m.Title,
		m.Description,
		millisOrNil(m.StartTime),
		m.EndTime.UnixMilli(),
		m.UserId,
		intOrNil(m.CategoryId),
		m.Repeated,
		m.Shared,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store schedule metadata: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetMetadata(ctx context.Context, id int) (Metadata, error) {
	query := `SELECT id, title, COALESCE(description, ''), start_time, end_time, user_id, category_id, repeated, shared
				FROM schedule_metadata WHERE id = $1 AND deleted_at IS NULL`

	var m Metadata
	var startMillis, categoryId sql.NullInt64
	var endMillis int64
	err := r.getQueryer().QueryRowContext(ctx, query, id).
		Scan(&m.Id, &m.Title, &m.Description, &startMillis, &endMillis, &m.UserId, &categoryId, &m.Repeated, &m.Shared)
	if errors.Is(err, sql.ErrNoRows) {
		return Metadata{}, ErrMetadataNotFound
	} else if err != nil {
		err := fmt.Errorf("could not query schedule metadata: %w", err)
		log.Error(err)
		return Metadata{}, err
	}
	if startMillis.Valid {
		t := time.UnixMilli(startMillis.Int64)
		m.StartTime = &t
	}
	m.EndTime = time.UnixMilli(endMillis)
	if categoryId.Valid {
		c := int(categoryId.Int64)
		m.CategoryId = &c
	}
	return m, nil
}

func (r *RepositoryImpl) UpdateMetadata(ctx context.Context, id int, m Metadata) error {
	query := `UPDATE schedule_metadata SET title = $1, description = $2, start_time = $3, end_time = $4, category_id = $5
				WHERE id = $6 AND deleted_at IS NULL`

	result, err := r.getQueryer().ExecContext(ctx, query,
		m.Title,
		m.Description,
		millisOrNil(m.StartTime),
		m.EndTime.UnixMilli(),
		intOrNil(m.CategoryId),
		id,
	)
	if err != nil {
		err := fmt.Errorf("could not update schedule metadata: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMetadataNotFound
	}
	return nil
}

func (r *RepositoryImpl) SetShared(ctx context.Context, id int) error {
	query := `UPDATE schedule_metadata SET shared = $1 WHERE id = $2 AND deleted_at IS NULL`
	if _, err := r.getQueryer().ExecContext(ctx, query, true, id); err != nil {
		err := fmt.Errorf("could not mark schedule metadata as shared: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) SoftDeleteMetadata(ctx context.Context, id int) error {
	query := `UPDATE schedule_metadata SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	if _, err := r.getQueryer().ExecContext(ctx, query, time.Now().UnixMilli(), id); err != nil {
		err := fmt.Errorf("could not soft-delete schedule metadata: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) AddSchedule(ctx context.Context, metadataId int, startAt *time.Time, endAt time.Time) (string, error) {
	query := `INSERT INTO schedule (uuid, metadata_id, start_at, end_at) VALUES ($1, $2, $3, $4)`

	scheduleUuid := uuid.NewString()
	_, err := r.getQueryer().ExecContext(ctx, query, scheduleUuid, metadataId, millisOrNil(startAt), endAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store schedule: %w", err)
		log.Error(err)
		return "", err
	}
	return scheduleUuid, nil
}

func (r *RepositoryImpl) GetByUuid(ctx context.Context, scheduleUuid string) (Schedule, error) {
	query := `SELECT id, uuid, metadata_id, start_at, end_at, failed, has_retrospective_memo
				FROM schedule WHERE uuid = $1 AND deleted_at IS NULL`

	var s Schedule
	var startMillis sql.NullInt64
	var endMillis int64
	err := r.getQueryer().QueryRowContext(ctx, query, scheduleUuid).
		Scan(&s.Id, &s.Uuid, &s.MetadataId, &startMillis, &endMillis, &s.Failed, &s.HasRetrospectiveMemo)
	if errors.Is(err, sql.ErrNoRows) {
		return Schedule{}, ErrScheduleNotFound
	} else if err != nil {
		err := fmt.Errorf("could not query schedule: %w", err)
		log.Error(err)
		return Schedule{}, err
	}
	if startMillis.Valid {
		t := time.UnixMilli(startMillis.Int64)
		s.StartAt = &t
	}
	s.EndAt = time.UnixMilli(endMillis)
	return s, nil
}

func (r *RepositoryImpl) GetMetadataIdByUuid(ctx context.Context, scheduleUuid string) (int, error) {
	query := `SELECT metadata_id FROM schedule WHERE uuid = $1 AND deleted_at IS NULL`
	var metadataId int
	err := r.getQueryer().QueryRowContext(ctx, query, scheduleUuid).Scan(&metadataId)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrScheduleNotFound
	} else if err != nil {
		err := fmt.Errorf("could not query schedule: %w", err)
		log.Error(err)
		return 0, err
	}
	return metadataId, nil
}

func (r *RepositoryImpl) GetFirstUuidByMetadataId(ctx context.Context, metadataId int) (string, error) {
	query := `SELECT uuid FROM schedule WHERE metadata_id = $1 AND deleted_at IS NULL ORDER BY id LIMIT 1`
	var scheduleUuid string
	err := r.getQueryer().QueryRowContext(ctx, query, metadataId).Scan(&scheduleUuid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrScheduleNotFound
	} else if err != nil {
		err := fmt.Errorf("could not query schedule: %w", err)
		log.Error(err)
		return "", err
	}
	return scheduleUuid, nil
}

func (r *RepositoryImpl) UpdateSchedule(ctx context.Context, scheduleUuid string, startAt *time.Time, endAt time.Time) error {
	query := `UPDATE schedule SET start_at = $1, end_at = $2 WHERE uuid = $3 AND deleted_at IS NULL`
	result, err := r.getQueryer().ExecContext(ctx, query, millisOrNil(startAt), endAt.UnixMilli(), scheduleUuid)
	if err != nil {
		err := fmt.Errorf("could not update schedule: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *RepositoryImpl) SoftDeleteByUuid(ctx context.Context, scheduleUuid string) (int, error) {
	metadataId, err := r.GetMetadataIdByUuid(ctx, scheduleUuid)
	if err != nil {
		return 0, err
	}

	query := `UPDATE schedule SET deleted_at = $1 WHERE uuid = $2 AND deleted_at IS NULL`
	if _, err := r.getQueryer().ExecContext(ctx, query, time.Now().UnixMilli(), scheduleUuid); err != nil {
		err := fmt.Errorf("could not soft-delete schedule: %w", err)
		log.Error(err)
		return 0, err
	}
	return metadataId, nil
}

func (r *RepositoryImpl) GetViews(ctx context.Context, userId int, from, to time.Time) ([]View, error) {
	// Schedules overlapping the window; point-in-time schedules (no start)
	// are matched on their end instant.
	query := `SELECT s.uuid, m.id, m.title, COALESCE(m.description, ''), s.start_at, s.end_at, s.failed, m.repeated, m.shared,
					l.metadata_id,
					l.start_place_name, l.start_place_address, l.start_latitude, l.start_longitude,
					l.end_place_name, l.end_place_address, l.end_latitude, l.end_longitude
				FROM schedule_metadata m
				JOIN schedule s ON s.metadata_id = m.id
				LEFT JOIN schedule_location l ON l.metadata_id = m.id
				WHERE m.user_id = $1
					AND m.deleted_at IS NULL
					AND s.deleted_at IS NULL
					AND COALESCE(s.start_at, s.end_at) <= $2
					AND s.end_at >= $3
				ORDER BY s.end_at`

	rows, err := r.getQueryer().QueryContext(ctx, query, userId, to.UnixMilli(), from.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not query schedules: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	views := make([]View, 0, 10)
	for rows.Next() {
		var v View
		var startMillis, locMetadataId sql.NullInt64
		var endMillis int64
		var startName, startAddress, endName, endAddress sql.NullString
		var startLat, startLng, endLat, endLng sql.NullFloat64
		err := rows.Scan(&v.Uuid, &v.MetadataId, &v.Title, &v.Description, &startMillis, &endMillis, &v.Failed, &v.Repeated, &v.Shared,
			&locMetadataId,
			&startName, &startAddress, &startLat, &startLng,
			&endName, &endAddress, &endLat, &endLng)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		if startMillis.Valid {
			t := time.UnixMilli(startMillis.Int64)
			v.StartAt = &t
		}
		v.EndAt = time.UnixMilli(endMillis)
		if locMetadataId.Valid {
			loc := Location{MetadataId: int(locMetadataId.Int64)}
			if startName.Valid {
				loc.Start = &Place{Name: startName.String, Address: startAddress.String, Latitude: startLat.Float64, Longitude: startLng.Float64}
			}
			if endName.Valid {
				loc.End = &Place{Name: endName.String, Address: endAddress.String, Latitude: endLat.Float64, Longitude: endLng.Float64}
			}
			v.Location = &loc
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func millisOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func intOrNil(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}
