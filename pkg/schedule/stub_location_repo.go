package schedule

import (
	"context"
)

type StubLocationRepo struct {
	data map[int]Location
}

func NewStubLocationRepo() *StubLocationRepo {
	return &StubLocationRepo{data: map[int]Location{}}
}

func (s *StubLocationRepo) GetByMetadataId(ctx context.Context, metadataId int) (*Location, error) {
	loc, ok := s.data[metadataId]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (s *StubLocationRepo) Upsert(ctx context.Context, location Location) error {
	s.data[location.MetadataId] = location
	return nil
}

func (s *StubLocationRepo) Delete(ctx context.Context, metadataId int) error {
	delete(s.data, metadataId)
	return nil
}
