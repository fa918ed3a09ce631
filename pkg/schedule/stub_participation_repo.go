package schedule

import (
	"context"
	"time"
)

// StubParticipationRepo keeps the ledger in memory. It joins against a
// StubScheduleRepository to resolve which user owns a participant copy,
// mirroring what the SQL implementation does with schedule_metadata.
type StubParticipationRepo struct {
	nextId    int
	links     []Participation
	schedules *StubScheduleRepository
}

func NewStubParticipationRepo(schedules *StubScheduleRepository) *StubParticipationRepo {
	return &StubParticipationRepo{schedules: schedules}
}

func (s *StubParticipationRepo) live() []Participation {
	result := make([]Participation, 0, len(s.links))
	for _, p := range s.links {
		if p.DeletedAt == nil {
			result = append(result, p)
		}
	}
	return result
}

func (s *StubParticipationRepo) IsAlreadyInvited(ctx context.Context, authorMetadataId, invitedUserId int) (bool, int, error) {
	for _, p := range s.live() {
		if p.AuthorId != authorMetadataId {
			continue
		}
		if m, ok := s.schedules.metadata[p.ParticipantId]; ok && m.UserId == invitedUserId {
			return true, p.ParticipantId, nil
		}
	}
	return false, 0, nil
}

func (s *StubParticipationRepo) GetGroup(ctx context.Context, metadataId int) ([]Participation, error) {
	authorId := 0
	for _, p := range s.live() {
		if p.ParticipantId == metadataId {
			authorId = p.AuthorId
			break
		}
	}
	if authorId == 0 {
		return nil, nil
	}
	group := make([]Participation, 0, 4)
	for _, p := range s.live() {
		if p.AuthorId == authorId {
			group = append(group, p)
		}
	}
	return group, nil
}

func (s *StubParticipationRepo) Invite(ctx context.Context, authorMetadataId, invitedMetadataId int) error {
	for _, p := range s.live() {
		if p.ParticipantId == invitedMetadataId {
			return ErrAlreadyParticipant
		}
	}
	if authorMetadataId != invitedMetadataId {
		hasRoot := false
		for _, p := range s.live() {
			if p.AuthorId == authorMetadataId && p.ParticipantId == authorMetadataId {
				hasRoot = true
				break
			}
		}
		if !hasRoot {
			s.nextId++
			s.links = append(s.links, Participation{Id: s.nextId, AuthorId: authorMetadataId, ParticipantId: authorMetadataId})
		}
	}
	s.nextId++
	s.links = append(s.links, Participation{Id: s.nextId, AuthorId: authorMetadataId, ParticipantId: invitedMetadataId})
	return nil
}

func (s *StubParticipationRepo) UnInvite(ctx context.Context, authorMetadataId, invitedMetadataId int) error {
	deletedAt := time.Now()
	for i, p := range s.links {
		if p.AuthorId == authorMetadataId && p.ParticipantId == invitedMetadataId && p.DeletedAt == nil {
			s.links[i].DeletedAt = &deletedAt
		}
	}
	return nil
}

func (s *StubParticipationRepo) DeleteAuthorGroup(ctx context.Context, authorMetadataId int) error {
	return s.UnInvite(ctx, authorMetadataId, authorMetadataId)
}
