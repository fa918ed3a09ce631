package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/planj/planj/pkg/category"
	"github.com/planj/planj/pkg/user"
	log "github.com/sirupsen/logrus"
)

// RepetitionUpdater reconciles the repetition rule of a metadata record.
// A nil rule removes any stored rule.
type RepetitionUpdater interface {
	UpdateRepetition(ctx context.Context, metadataId int, rule *string) error
}

// UpdateRequest carries one full schedule update. Participants nil means the
// field was absent from the request; an empty non-nil list is a fan-out to
// nobody.
type UpdateRequest struct {
	ScheduleUuid  string
	CategoryUuid  string
	Title         string
	Description   string
	StartAt       *time.Time
	EndAt         time.Time
	StartLocation *Place
	EndLocation   *Place
	Repetition    *string
	Participants  []string
}

type Service interface {
	AddSchedule(ctx context.Context, categoryUuid, title string, endAt time.Time) (string, error)
	UpdateSchedule(ctx context.Context, req UpdateRequest) error
	DeleteSchedule(ctx context.Context, scheduleUuid string) error
	GetDaily(ctx context.Context, date time.Time) ([]View, error)
	GetWeekly(ctx context.Context, date time.Time) ([]View, error)
}

type ServiceImpl struct {
	repo        Repository
	locations   *LocationService
	repetitions RepetitionUpdater
	categories  category.Service
	sharing     *Sharing
}

func NewService(repo Repository, locations *LocationService, repetitions RepetitionUpdater,
	categories category.Service, sharing *Sharing) *ServiceImpl {
	return &ServiceImpl{
		repo:        repo,
		locations:   locations,
		repetitions: repetitions,
		categories:  categories,
		sharing:     sharing,
	}
}

func (s *ServiceImpl) AddSchedule(ctx context.Context, categoryUuid, title string, endAt time.Time) (string, error) {
	if title == "" {
		return "", ErrEmptyTitle
	}

	userId, err := user.CurrentId(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}

	categoryId, err := s.categories.Resolve(ctx, userId, categoryUuid)
	if err != nil {
		return "", err
	}

	// Metadata and its occurrence come into existence together or not at all.
	var scheduleUuid string
	err = s.repo.WithTransaction(ctx, func(repo Repository) error {
		metadataId, err := repo.AddMetadata(ctx, Metadata{
			Title:      title,
			EndTime:    endAt,
			UserId:     userId,
			CategoryId: categoryId,
		})
		if err != nil {
			return err
		}
		scheduleUuid, err = repo.AddSchedule(ctx, metadataId, nil, endAt)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to add schedule: %w", err)
	}
	return scheduleUuid, nil
}

func (s *ServiceImpl) UpdateSchedule(ctx context.Context, req UpdateRequest) error {
	if req.Title == "" {
		return ErrEmptyTitle
	}
	if req.StartAt != nil && req.EndAt.Before(*req.StartAt) {
		return ErrInvalidTimeWindow
	}

	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	categoryId, err := s.categories.Resolve(ctx, userId, req.CategoryUuid)
	if err != nil {
		return err
	}

	metadataId, err := s.repo.GetMetadataIdByUuid(ctx, req.ScheduleUuid)
	if err != nil {
		return err
	}

	err = s.repo.UpdateMetadata(ctx, metadataId, Metadata{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartAt,
		EndTime:     req.EndAt,
		CategoryId:  categoryId,
	})
	if err != nil {
		return err
	}
	if err := s.locations.UpdateLocation(ctx, metadataId, req.StartLocation, req.EndLocation); err != nil {
		return err
	}
	if err := s.repetitions.UpdateRepetition(ctx, metadataId, req.Repetition); err != nil {
		return err
	}
	if err := s.repo.UpdateSchedule(ctx, req.ScheduleUuid, req.StartAt, req.EndAt); err != nil {
		return err
	}

	if req.Participants != nil {
		// Post-share edits propagate by re-running the invite procedure per
		// participant; failures are isolated per email and never fail the
		// author's own update.
		failures := s.sharing.ShareWithAll(ctx, req.ScheduleUuid, req.Participants)
		for email, shareErr := range failures {
			log.Errorf("failed to propagate schedule %s to %s: %v", req.ScheduleUuid, email, shareErr)
		}
		// The flag tracks membership: it stays unset until at least one
		// participant actually exists.
		if len(failures) < len(req.Participants) {
			if err := s.repo.SetShared(ctx, metadataId); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ServiceImpl) DeleteSchedule(ctx context.Context, scheduleUuid string) error {
	metadataId, err := s.repo.SoftDeleteByUuid(ctx, scheduleUuid)
	if err != nil {
		return err
	}
	// Participant copies stay untouched: their links simply dangle from a
	// deleted author once the owner is gone.
	return s.repo.SoftDeleteMetadata(ctx, metadataId)
}

func (s *ServiceImpl) GetDaily(ctx context.Context, date time.Time) ([]View, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return s.repo.GetViews(ctx, userId, dayStart, dayStart.AddDate(0, 0, 1).Add(-time.Millisecond))
}

func (s *ServiceImpl) GetWeekly(ctx context.Context, date time.Time) ([]View, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return s.repo.GetViews(ctx, userId, dayStart, dayStart.AddDate(0, 0, 7).Add(-time.Millisecond))
}
