package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, userId int, category Category) (int, error)
	GetAll(ctx context.Context, userId int) ([]Category, error)
	GetByUuid(ctx context.Context, userId int, uuid string) (Category, error)
	Update(ctx context.Context, userId int, category Category) (bool, error)
	Delete(ctx context.Context, userId int, uuid string) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, userId int, category Category) (int, error) {
	query := `INSERT INTO category (uuid, name, color, user_id) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query, category.Uuid, category.Name, category.Color, userId).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store category: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, userId int) ([]Category, error) {
	query := `SELECT id, uuid, name, color, user_id FROM category WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0, 10)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Id, &c.Uuid, &c.Name, &c.Color, &c.UserId); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *RepositoryImpl) GetByUuid(ctx context.Context, userId int, uuid string) (Category, error) {
	query := `SELECT id, uuid, name, color, user_id FROM category WHERE user_id = $1 AND uuid = $2`
	var c Category
	err := r.db.QueryRowContext(ctx, query, userId, uuid).Scan(&c.Id, &c.Uuid, &c.Name, &c.Color, &c.UserId)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	} else if err != nil {
		err := fmt.Errorf("could not query category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	return c, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, category Category) (bool, error) {
	query := `UPDATE category SET name = $1, color = $2 WHERE user_id = $3 AND uuid = $4`
	result, err := r.db.ExecContext(ctx, query, category.Name, category.Color, userId, category.Uuid)
	if err != nil {
		err := fmt.Errorf("could not update category: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, uuid string) (bool, error) {
	query := `DELETE FROM category WHERE user_id = $1 AND uuid = $2`
	result, err := r.db.ExecContext(ctx, query, userId, uuid)
	if err != nil {
		err := fmt.Errorf("could not delete category: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}
