package schedule

import (
	"context"
	"fmt"
	"time"
)

type StubScheduleRepository struct {
	nextMetadataId int
	nextScheduleId int
	metadata       map[int]Metadata
	deletedMeta    map[int]bool
	schedules      map[string]Schedule
	deleted        map[string]bool
}

func NewStubScheduleRepository() *StubScheduleRepository {
	return &StubScheduleRepository{
		metadata:    map[int]Metadata{},
		deletedMeta: map[int]bool{},
		schedules:   map[string]Schedule{},
		deleted:     map[string]bool{},
	}
}

func (s *StubScheduleRepository) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	return fn(s)
}

func (s *StubScheduleRepository) AddMetadata(ctx context.Context, m Metadata) (int, error) {
	s.nextMetadataId++
	m.Id = s.nextMetadataId
	s.metadata[m.Id] = m
	return m.Id, nil
}

func (s *StubScheduleRepository) GetMetadata(ctx context.Context, id int) (Metadata, error) {
	m, ok := s.metadata[id]
	if !ok || s.deletedMeta[id] {
		return Metadata{}, ErrMetadataNotFound
	}
	return m, nil
}

func (s *StubScheduleRepository) UpdateMetadata(ctx context.Context, id int, m Metadata) error {
	existing, ok := s.metadata[id]
	if !ok || s.deletedMeta[id] {
		return ErrMetadataNotFound
	}
	existing.Title = m.Title
	existing.Description = m.Description
	existing.StartTime = m.StartTime
	existing.EndTime = m.EndTime
	existing.CategoryId = m.CategoryId
	s.metadata[id] = existing
	return nil
}

func (s *StubScheduleRepository) SetShared(ctx context.Context, id int) error {
	m, ok := s.metadata[id]
	if !ok || s.deletedMeta[id] {
		return ErrMetadataNotFound
	}
	m.Shared = true
	s.metadata[id] = m
	return nil
}

func (s *StubScheduleRepository) SoftDeleteMetadata(ctx context.Context, id int) error {
	s.deletedMeta[id] = true
	return nil
}

func (s *StubScheduleRepository) AddSchedule(ctx context.Context, metadataId int, startAt *time.Time, endAt time.Time) (string, error) {
	s.nextScheduleId++
	scheduleUuid := fmt.Sprintf("stub-uuid-%d", s.nextScheduleId)
	s.schedules[scheduleUuid] = Schedule{
		Id:         s.nextScheduleId,
		Uuid:       scheduleUuid,
		MetadataId: metadataId,
		StartAt:    startAt,
		EndAt:      endAt,
	}
	return scheduleUuid, nil
}

func (s *StubScheduleRepository) GetByUuid(ctx context.Context, scheduleUuid string) (Schedule, error) {
	sch, ok := s.schedules[scheduleUuid]
	if !ok || s.deleted[scheduleUuid] {
		return Schedule{}, ErrScheduleNotFound
	}
	return sch, nil
}

func (s *StubScheduleRepository) GetMetadataIdByUuid(ctx context.Context, scheduleUuid string) (int, error) {
	sch, err := s.GetByUuid(ctx, scheduleUuid)
	if err != nil {
		return 0, err
	}
	return sch.MetadataId, nil
}

func (s *StubScheduleRepository) GetFirstUuidByMetadataId(ctx context.Context, metadataId int) (string, error) {
	first := ""
	firstId := 0
	for scheduleUuid, sch := range s.schedules {
		if sch.MetadataId != metadataId || s.deleted[scheduleUuid] {
			continue
		}
		if first == "" || sch.Id < firstId {
			first = scheduleUuid
			firstId = sch.Id
		}
	}
	if first == "" {
		return "", ErrScheduleNotFound
	}
	return first, nil
}

func (s *StubScheduleRepository) UpdateSchedule(ctx context.Context, scheduleUuid string, startAt *time.Time, endAt time.Time) error {
	sch, err := s.GetByUuid(ctx, scheduleUuid)
	if err != nil {
		return err
	}
	sch.StartAt = startAt
	sch.EndAt = endAt
	s.schedules[scheduleUuid] = sch
	return nil
}

func (s *StubScheduleRepository) SoftDeleteByUuid(ctx context.Context, scheduleUuid string) (int, error) {
	sch, err := s.GetByUuid(ctx, scheduleUuid)
	if err != nil {
		return 0, err
	}
	s.deleted[scheduleUuid] = true
	return sch.MetadataId, nil
}

func (s *StubScheduleRepository) GetViews(ctx context.Context, userId int, from, to time.Time) ([]View, error) {
	views := make([]View, 0)
	for scheduleUuid, sch := range s.schedules {
		if s.deleted[scheduleUuid] || s.deletedMeta[sch.MetadataId] {
			continue
		}
		m := s.metadata[sch.MetadataId]
		if m.UserId != userId {
			continue
		}
		effectiveStart := sch.EndAt
		if sch.StartAt != nil {
			effectiveStart = *sch.StartAt
		}
		if effectiveStart.After(to) || sch.EndAt.Before(from) {
			continue
		}
		views = append(views, View{
			Uuid:        scheduleUuid,
			MetadataId:  m.Id,
			Title:       m.Title,
			Description: m.Description,
			StartAt:     sch.StartAt,
			EndAt:       sch.EndAt,
			Failed:      sch.Failed,
			Repeated:    m.Repeated,
			Shared:      m.Shared,
		})
	}
	return views, nil
}
