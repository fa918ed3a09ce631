package repetition

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

type Service interface {
	Get(ctx context.Context, metadataId int) (*Rule, error)
	UpdateRepetition(ctx context.Context, metadataId int, rule *string) error
	Expand(ctx context.Context, metadataId int, anchor time.Time, from, to time.Time) ([]time.Time, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Get(ctx context.Context, metadataId int) (*Rule, error) {
	return s.repo.Get(ctx, metadataId)
}

// UpdateRepetition reconciles the stored rule with the request. A nil rule
// removes any stored rule; a non-nil rule must parse as an RFC 5545 RRULE.
func (s *ServiceImpl) UpdateRepetition(ctx context.Context, metadataId int, rule *string) error {
	if rule == nil {
		return s.repo.Delete(ctx, metadataId)
	}
	if _, err := rrule.StrToRRule(*rule); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return s.repo.Set(ctx, metadataId, *rule)
}

// Expand lists the occurrences of the metadata's rule inside [from, to],
// anchored at the schedule's own time. Without a rule only the anchor itself
// is returned, and only when it falls inside the window.
func (s *ServiceImpl) Expand(ctx context.Context, metadataId int, anchor time.Time, from, to time.Time) ([]time.Time, error) {
	stored, err := s.repo.Get(ctx, metadataId)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		if anchor.Before(from) || anchor.After(to) {
			return nil, nil
		}
		return []time.Time{anchor}, nil
	}

	parsed, err := rrule.StrToRRule(stored.Rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	parsed.DTStart(anchor)
	return parsed.Between(from, to, true), nil
}
