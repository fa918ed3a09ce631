package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ParticipationRepo is the ledger of sharing groups. A group is the set of
// live rows sharing one author_id: the author's own root row (participant_id
// equal to author_id) plus one row per invited copy. A metadata id may be a
// live participant in at most one group; the partial unique index on
// participant_id enforces this even under concurrent invites.
type ParticipationRepo interface {
	// IsAlreadyInvited reports whether the given user already owns a live
	// copy in the author's group, and if so which metadata id it is.
	IsAlreadyInvited(ctx context.Context, authorMetadataId, invitedUserId int) (bool, int, error)
	// GetGroup resolves the metadata to its group and returns all live
	// links of that group. Returns nil when the metadata is in no group.
	GetGroup(ctx context.Context, metadataId int) ([]Participation, error)
	// Invite links the invited copy into the author's group, creating the
	// author's root link first if this is the group's first invite. Returns
	// ErrAlreadyParticipant when the copy is already live in any group.
	Invite(ctx context.Context, authorMetadataId, invitedMetadataId int) error
	// UnInvite soft-deletes the link. A missing link is a no-op.
	UnInvite(ctx context.Context, authorMetadataId, invitedMetadataId int) error
	// DeleteAuthorGroup soft-deletes the author's own root link, dissolving
	// the group without touching participant links.
	DeleteAuthorGroup(ctx context.Context, authorMetadataId int) error
}

type ParticipationRepoImpl struct {
	db *sql.DB
}

func NewParticipationRepo(db *sql.DB) *ParticipationRepoImpl {
	return &ParticipationRepoImpl{db: db}
}

func (r *ParticipationRepoImpl) IsAlreadyInvited(ctx context.Context, authorMetadataId, invitedUserId int) (bool, int, error) {
	query := `SELECT p.participant_id
				FROM participation p
				JOIN schedule_metadata m ON m.id = p.participant_id
				WHERE p.author_id = $1 AND p.deleted_at IS NULL AND m.user_id = $2`

	var participantId int
	err := r.db.QueryRowContext(ctx, query, authorMetadataId, invitedUserId).Scan(&participantId)
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, nil
	} else if err != nil {
		err := fmt.Errorf("could not query participation: %w", err)
		log.Error(err)
		return false, 0, err
	}
	return true, participantId, nil
}

func (r *ParticipationRepoImpl) GetGroup(ctx context.Context, metadataId int) ([]Participation, error) {
	query := `SELECT author_id FROM participation WHERE participant_id = $1 AND deleted_at IS NULL`
	var authorId int
	err := r.db.QueryRowContext(ctx, query, metadataId).Scan(&authorId)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		err := fmt.Errorf("could not query participation: %w", err)
		log.Error(err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, author_id, participant_id FROM participation WHERE author_id = $1 AND deleted_at IS NULL ORDER BY id`,
		authorId)
	if err != nil {
		err := fmt.Errorf("could not query participation group: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	group := make([]Participation, 0, 4)
	for rows.Next() {
		var p Participation
		if err := rows.Scan(&p.Id, &p.AuthorId, &p.ParticipantId); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		group = append(group, p)
	}
	return group, rows.Err()
}

func (r *ParticipationRepoImpl) Invite(ctx context.Context, authorMetadataId, invitedMetadataId int) error {
	var liveAuthor int
	query := `SELECT author_id FROM participation WHERE participant_id = $1 AND deleted_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, invitedMetadataId).Scan(&liveAuthor)
	if err == nil {
		return ErrAlreadyParticipant
	} else if !errors.Is(err, sql.ErrNoRows) {
		err := fmt.Errorf("could not query participation: %w", err)
		log.Error(err)
		return err
	}

	// The author's own root row anchors the group; created lazily on the
	// group's first invite.
	if err := r.ensureAuthorRoot(ctx, authorMetadataId); err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO participation (author_id, participant_id) VALUES ($1, $2)`,
		authorMetadataId, invitedMetadataId)
	if err != nil {
		// Lost a race with a concurrent invite of the same copy.
		if isUniqueViolation(err) {
			return ErrAlreadyParticipant
		}
		err := fmt.Errorf("could not store participation: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *ParticipationRepoImpl) ensureAuthorRoot(ctx context.Context, authorMetadataId int) error {
	var exists int
	query := `SELECT COUNT(*) FROM participation WHERE author_id = $1 AND participant_id = $1 AND deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, query, authorMetadataId).Scan(&exists); err != nil {
		log.Errorf("failed to check author root link: %v", err)
		return err
	}
	if exists > 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO participation (author_id, participant_id) VALUES ($1, $1)`,
		authorMetadataId)
	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent invite created the root first.
			return nil
		}
		err := fmt.Errorf("could not store author root link: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *ParticipationRepoImpl) UnInvite(ctx context.Context, authorMetadataId, invitedMetadataId int) error {
	query := `UPDATE participation SET deleted_at = $1 WHERE author_id = $2 AND participant_id = $3 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, time.Now().UnixMilli(), authorMetadataId, invitedMetadataId)
	if err != nil {
		err := fmt.Errorf("could not soft-delete participation: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Idempotent: removing an absent link is not an error.
		log.Debugf("no live participation link (%d, %d) to remove", authorMetadataId, invitedMetadataId)
	}
	return nil
}

func (r *ParticipationRepoImpl) DeleteAuthorGroup(ctx context.Context, authorMetadataId int) error {
	return r.UnInvite(ctx, authorMetadataId, authorMetadataId)
}

// isUniqueViolation detects a unique-constraint failure without binding to a
// single driver's error type; both sqlite and postgres are in play.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value") // postgres
}
