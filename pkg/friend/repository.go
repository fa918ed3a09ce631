package friend

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, userId, friendId int) error
	Exists(ctx context.Context, userId, friendId int) (bool, error)
	GetFriendIds(ctx context.Context, userId int) ([]int, error)
	Delete(ctx context.Context, userId, friendId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, userId, friendId int) error {
	query := `INSERT INTO friend (user_id, friend_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, userId, friendId); err != nil {
		err := fmt.Errorf("could not store friend: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Exists(ctx context.Context, userId, friendId int) (bool, error) {
	query := `SELECT COUNT(*) FROM friend WHERE user_id = $1 AND friend_id = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userId, friendId).Scan(&count); err != nil {
		log.Errorf("failed to check friendship: %v", err)
		return false, err
	}
	return count > 0, nil
}

func (r *RepositoryImpl) GetFriendIds(ctx context.Context, userId int) ([]int, error) {
	query := `SELECT friend_id FROM friend WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query friends: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0, 10)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId, friendId int) (bool, error) {
	query := `DELETE FROM friend WHERE user_id = $1 AND friend_id = $2`
	result, err := r.db.ExecContext(ctx, query, userId, friendId)
	if err != nil {
		err := fmt.Errorf("could not delete friend: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}
