package friend

import (
	"context"
	"fmt"

	"github.com/planj/planj/pkg/user"
)

type Service interface {
	Add(ctx context.Context, email string) (user.User, error)
	GetAll(ctx context.Context) ([]user.User, error)
	Delete(ctx context.Context, email string) error
}

type ServiceImpl struct {
	repo  Repository
	users user.Service
}

func NewService(repo Repository, users user.Service) *ServiceImpl {
	return &ServiceImpl{repo: repo, users: users}
}

func (s *ServiceImpl) Add(ctx context.Context, email string) (user.User, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get current user: %w", err)
	}

	target, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	if target.Id == userId {
		return user.User{}, ErrSelfFriend
	}

	exists, err := s.repo.Exists(ctx, userId, target.Id)
	if err != nil {
		return user.User{}, err
	}
	if exists {
		return user.User{}, ErrAlreadyFriends
	}

	if err := s.repo.Store(ctx, userId, target.Id); err != nil {
		return user.User{}, err
	}
	return target, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]user.User, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	ids, err := s.repo.GetFriendIds(ctx, userId)
	if err != nil {
		return nil, err
	}

	friends := make([]user.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.GetUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get friend %d: %w", id, err)
		}
		friends = append(friends, u)
	}
	return friends, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, email string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	target, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, userId, target.Id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFriends
	}
	return nil
}
