package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type LocationRepo interface {
	// GetByMetadataId returns nil without error when no record exists.
	GetByMetadataId(ctx context.Context, metadataId int) (*Location, error)
	Upsert(ctx context.Context, location Location) error
	Delete(ctx context.Context, metadataId int) error
}

type LocationRepoImpl struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepoImpl {
	return &LocationRepoImpl{db: db}
}

func (r *LocationRepoImpl) GetByMetadataId(ctx context.Context, metadataId int) (*Location, error) {
	query := `SELECT start_place_name, start_place_address, start_latitude, start_longitude,
					end_place_name, end_place_address, end_latitude, end_longitude
				FROM schedule_location WHERE metadata_id = $1`

	var startName, startAddress, endName, endAddress sql.NullString
	var startLat, startLng, endLat, endLng sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, metadataId).
		Scan(&startName, &startAddress, &startLat, &startLng, &endName, &endAddress, &endLat, &endLng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		err := fmt.Errorf("could not query schedule location: %w", err)
		log.Error(err)
		return nil, err
	}

	loc := Location{MetadataId: metadataId}
	if startName.Valid {
		loc.Start = &Place{Name: startName.String, Address: startAddress.String, Latitude: startLat.Float64, Longitude: startLng.Float64}
	}
	if endName.Valid {
		loc.End = &Place{Name: endName.String, Address: endAddress.String, Latitude: endLat.Float64, Longitude: endLng.Float64}
	}
	return &loc, nil
}

func (r *LocationRepoImpl) Upsert(ctx context.Context, location Location) error {
	query := `INSERT INTO schedule_location (metadata_id,
					start_place_name, start_place_address, start_latitude, start_longitude,
					end_place_name, end_place_address, end_latitude, end_longitude)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (metadata_id) DO UPDATE SET
					start_place_name = $2, start_place_address = $3, start_latitude = $4, start_longitude = $5,
					end_place_name = $6, end_place_address = $7, end_latitude = $8, end_longitude = $9`

	var startName, startAddress, startLat, startLng interface{}
	if location.Start != nil {
		startName = location.Start.Name
		startAddress = location.Start.Address
		startLat = location.Start.Latitude
		startLng = location.Start.Longitude
	}
	var endName, endAddress, endLat, endLng interface{}
	if location.End != nil {
		endName = location.End.Name
		endAddress = location.End.Address
		endLat = location.End.Latitude
		endLng = location.End.Longitude
	}

	_, err := r.db.ExecContext(ctx, query, location.MetadataId,
		startName, startAddress, startLat, startLng,
		endName, endAddress, endLat, endLng)
	if err != nil {
		err := fmt.Errorf("could not upsert schedule location: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *LocationRepoImpl) Delete(ctx context.Context, metadataId int) error {
	query := `DELETE FROM schedule_location WHERE metadata_id = $1`
	if _, err := r.db.ExecContext(ctx, query, metadataId); err != nil {
		err := fmt.Errorf("could not delete schedule location: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
