package repetition

import (
	"context"
)

type StubRepository struct {
	data map[int]string
	// Repeated mirrors the flag the SQL implementation keeps on the
	// metadata row.
	Repeated map[int]bool
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[int]string{}, Repeated: map[int]bool{}}
}

func (s *StubRepository) Get(ctx context.Context, metadataId int) (*Rule, error) {
	rule, ok := s.data[metadataId]
	if !ok {
		return nil, nil
	}
	return &Rule{MetadataId: metadataId, Rule: rule}, nil
}

func (s *StubRepository) Set(ctx context.Context, metadataId int, rule string) error {
	s.data[metadataId] = rule
	s.Repeated[metadataId] = true
	return nil
}

func (s *StubRepository) Delete(ctx context.Context, metadataId int) error {
	delete(s.data, metadataId)
	s.Repeated[metadataId] = false
	return nil
}
