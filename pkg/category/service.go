package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/planj/planj/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, category Category) (Category, error)
	GetAll(ctx context.Context) ([]Category, error)
	// Resolve maps a category uuid to the owning user's category id.
	// The "default" sentinel resolves to nil without touching the store.
	Resolve(ctx context.Context, userId int, categoryUuid string) (*int, error)
	Update(ctx context.Context, category Category) (bool, error)
	Delete(ctx context.Context, categoryUuid string) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, category Category) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	category.Uuid = uuid.NewString()
	category.UserId = userId

	id, err := s.repo.Store(ctx, userId, category)
	if err != nil {
		return Category{}, err
	}
	category.Id = id
	return category, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Resolve(ctx context.Context, userId int, categoryUuid string) (*int, error) {
	if categoryUuid == "" || categoryUuid == DefaultUuid {
		return nil, nil
	}
	c, err := s.repo.GetByUuid(ctx, userId, categoryUuid)
	if err != nil {
		return nil, err
	}
	return &c.Id, nil
}

func (s *ServiceImpl) Update(ctx context.Context, category Category) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, category)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("category %s not updated, probably because it does not exist or the user (%d) is not the owner", category.Uuid, userId)
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, categoryUuid string) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if categoryUuid == DefaultUuid {
		// The sentinel has no row to delete.
		return false, nil
	}
	deleted, err := s.repo.Delete(ctx, userId, categoryUuid)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("category %s not deleted, probably because it does not exist or the user (%d) is not the owner", categoryUuid, userId)
	}
	return deleted, nil
}
