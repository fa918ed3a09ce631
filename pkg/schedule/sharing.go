package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/planj/planj/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Sharing coordinates schedule propagation between an author and the invited
// users. Inviting is idempotent: the first call for a (schedule, email) pair
// creates the invited user's private copy and links it into the author's
// group; every later call merely refreshes the copy from the author's
// current state. Edits after the first share therefore fan out by re-running
// the same procedure.
type Sharing struct {
	repo           Repository
	locations      *LocationService
	participations ParticipationRepo
	users          user.Service
}

func NewSharing(repo Repository, locations *LocationService, participations ParticipationRepo, users user.Service) *Sharing {
	return &Sharing{
		repo:           repo,
		locations:      locations,
		participations: participations,
		users:          users,
	}
}

// ShareWithAll runs the invite procedure for every email, sequentially.
// A failure for one participant never blocks the others; the returned map
// holds the per-email failures and is empty on full success.
func (s *Sharing) ShareWithAll(ctx context.Context, authorScheduleUuid string, emails []string) map[string]error {
	failures := map[string]error{}
	for _, email := range emails {
		if err := s.Invite(ctx, authorScheduleUuid, email); err != nil {
			log.Errorf("failed to share schedule %s with %s: %v", authorScheduleUuid, email, err)
			failures[email] = err
		}
	}
	return failures
}

// Invite shares the author's schedule with one user, creating or refreshing
// that user's linked private copy.
func (s *Sharing) Invite(ctx context.Context, authorScheduleUuid, invitedEmail string) error {
	authorMetadataId, err := s.repo.GetMetadataIdByUuid(ctx, authorScheduleUuid)
	if err != nil {
		return err
	}
	authorMeta, err := s.repo.GetMetadata(ctx, authorMetadataId)
	if err != nil {
		return err
	}
	authorSchedule, err := s.repo.GetByUuid(ctx, authorScheduleUuid)
	if err != nil {
		return err
	}
	authorLocation, err := s.locations.Get(ctx, authorMetadataId)
	if err != nil {
		return err
	}

	invited, err := s.users.GetUserByEmail(ctx, invitedEmail)
	if err != nil {
		return err
	}

	alreadyInvited, invitedMetadataId, err := s.participations.IsAlreadyInvited(ctx, authorMetadataId, invited.Id)
	if err != nil {
		return err
	}

	if !alreadyInvited {
		// First contact: materialize the copy in the invited user's own
		// calendar, in the default category.
		err = s.repo.WithTransaction(ctx, func(repo Repository) error {
			invitedMetadataId, err = repo.AddMetadata(ctx, Metadata{
				Title:   authorMeta.Title,
				EndTime: authorSchedule.EndAt,
				UserId:  invited.Id,
				Shared:  true,
			})
			if err != nil {
				return err
			}
			_, err = repo.AddSchedule(ctx, invitedMetadataId, nil, authorSchedule.EndAt)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to create invited copy: %w", err)
		}
		if err := s.repo.SetShared(ctx, authorMetadataId); err != nil {
			return err
		}

		err = s.participations.Invite(ctx, authorMetadataId, invitedMetadataId)
		if errors.Is(err, ErrAlreadyParticipant) {
			// A concurrent invite linked this user first. The copy created
			// above belongs to no group; retire it and refresh the linked
			// copy instead.
			orphanMetadataId := invitedMetadataId
			linked, winnerMetadataId, lookupErr := s.participations.IsAlreadyInvited(ctx, authorMetadataId, invited.Id)
			if lookupErr != nil {
				return lookupErr
			}
			if !linked {
				return err
			}
			if err := s.retireCopy(ctx, orphanMetadataId); err != nil {
				return err
			}
			invitedMetadataId = winnerMetadataId
			log.Infof("schedule %s already shared with %s", authorScheduleUuid, invitedEmail)
		} else if err != nil {
			return err
		}
	}

	// Every path refreshes the linked copy to the author's current snapshot;
	// this is what makes re-invoking the procedure idempotent.
	var startPlace, endPlace *Place
	if authorLocation != nil {
		startPlace = authorLocation.Start
		endPlace = authorLocation.End
	}

	err = s.repo.UpdateMetadata(ctx, invitedMetadataId, Metadata{
		Title:       authorMeta.Title,
		Description: authorMeta.Description,
		StartTime:   authorSchedule.StartAt,
		EndTime:     authorSchedule.EndAt,
	})
	if err != nil {
		return err
	}
	// The copy must not keep a stale location when the author has none.
	if err := s.locations.UpdateLocation(ctx, invitedMetadataId, startPlace, endPlace); err != nil {
		return err
	}
	invitedScheduleUuid, err := s.repo.GetFirstUuidByMetadataId(ctx, invitedMetadataId)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateSchedule(ctx, invitedScheduleUuid, authorSchedule.StartAt, authorSchedule.EndAt); err != nil {
		return err
	}
	return nil
}

// retireCopy soft-deletes a copy's occurrence and metadata.
func (s *Sharing) retireCopy(ctx context.Context, metadataId int) error {
	scheduleUuid, err := s.repo.GetFirstUuidByMetadataId(ctx, metadataId)
	if err != nil {
		return err
	}
	if _, err := s.repo.SoftDeleteByUuid(ctx, scheduleUuid); err != nil {
		return err
	}
	return s.repo.SoftDeleteMetadata(ctx, metadataId)
}

// UnInvite removes one participant from the author's group. The participant
// keeps the private copy; only the link goes away. Removing a user who was
// never invited is a no-op.
func (s *Sharing) UnInvite(ctx context.Context, authorScheduleUuid, invitedEmail string) error {
	authorMetadataId, err := s.repo.GetMetadataIdByUuid(ctx, authorScheduleUuid)
	if err != nil {
		return err
	}
	invited, err := s.users.GetUserByEmail(ctx, invitedEmail)
	if err != nil {
		return err
	}
	alreadyInvited, invitedMetadataId, err := s.participations.IsAlreadyInvited(ctx, authorMetadataId, invited.Id)
	if err != nil {
		return err
	}
	if !alreadyInvited {
		return nil
	}
	return s.participations.UnInvite(ctx, authorMetadataId, invitedMetadataId)
}

// StopSharing dissolves the author's group root. Participant links and their
// copies stay as they are; the group just has no author anymore.
func (s *Sharing) StopSharing(ctx context.Context, authorScheduleUuid string) error {
	authorMetadataId, err := s.repo.GetMetadataIdByUuid(ctx, authorScheduleUuid)
	if err != nil {
		return err
	}
	return s.participations.DeleteAuthorGroup(ctx, authorMetadataId)
}
