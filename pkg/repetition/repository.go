package repetition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Get returns nil without error when the metadata has no rule.
	Get(ctx context.Context, metadataId int) (*Rule, error)
	// Set stores the rule and raises the repeated flag on the metadata.
	Set(ctx context.Context, metadataId int, rule string) error
	// Delete removes the rule and lowers the repeated flag. Deleting an
	// absent rule is a no-op.
	Delete(ctx context.Context, metadataId int) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Get(ctx context.Context, metadataId int) (*Rule, error) {
	query := `SELECT rule FROM repetition WHERE metadata_id = $1`
	var rule Rule
	rule.MetadataId = metadataId
	err := r.db.QueryRowContext(ctx, query, metadataId).Scan(&rule.Rule)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		err := fmt.Errorf("could not query repetition rule: %w", err)
		log.Error(err)
		return nil, err
	}
	return &rule, nil
}

func (r *RepositoryImpl) Set(ctx context.Context, metadataId int, rule string) error {
	query := `INSERT INTO repetition (metadata_id, rule) VALUES ($1, $2)
				ON CONFLICT (metadata_id) DO UPDATE SET rule = $2`
	if _, err := r.db.ExecContext(ctx, query, metadataId, rule); err != nil {
		err := fmt.Errorf("could not store repetition rule: %w", err)
		log.Error(err)
		return err
	}
	return r.setRepeatedFlag(ctx, metadataId, true)
}

func (r *RepositoryImpl) Delete(ctx context.Context, metadataId int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM repetition WHERE metadata_id = $1`, metadataId); err != nil {
		err := fmt.Errorf("could not delete repetition rule: %w", err)
		log.Error(err)
		return err
	}
	return r.setRepeatedFlag(ctx, metadataId, false)
}

func (r *RepositoryImpl) setRepeatedFlag(ctx context.Context, metadataId int, repeated bool) error {
	query := `UPDATE schedule_metadata SET repeated = $1 WHERE id = $2 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, repeated, metadataId); err != nil {
		err := fmt.Errorf("could not update repeated flag: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
