package schedule

import (
	"context"
	"fmt"
)

// LocationService owns the presence rule for location records:
// the absence of an end place means the record must not exist at all.
type LocationService struct {
	repo LocationRepo
}

func NewLocationService(repo LocationRepo) *LocationService {
	return &LocationService{repo: repo}
}

func (s *LocationService) Get(ctx context.Context, metadataId int) (*Location, error) {
	return s.repo.GetByMetadataId(ctx, metadataId)
}

// UpdateLocation reconciles the stored location with the given places. No end
// place deletes an existing record (start is never kept on its own); an end
// place upserts both, the start fields independently nullable.
func (s *LocationService) UpdateLocation(ctx context.Context, metadataId int, start, end *Place) error {
	if end == nil {
		existing, err := s.repo.GetByMetadataId(ctx, metadataId)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := s.repo.Delete(ctx, metadataId); err != nil {
				return fmt.Errorf("failed to delete location: %w", err)
			}
		}
		return nil
	}

	if err := s.repo.Upsert(ctx, Location{MetadataId: metadataId, Start: start, End: end}); err != nil {
		return fmt.Errorf("failed to upsert location: %w", err)
	}
	return nil
}
