package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/planj/planj/internal/utils"
	"github.com/planj/planj/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, email, password, nickname string) (user.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	DeleteAccount(ctx context.Context, email, password string) error
	// Authenticate resolves a bearer token to the user owning the session.
	Authenticate(ctx context.Context, token string) (user.User, error)
}

type ServiceImpl struct {
	users    user.Service
	sessions SessionRepo
	clock    utils.Clock
}

func NewService(users user.Service, sessions SessionRepo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{users: users, sessions: sessions, clock: clock}
}

func (s *ServiceImpl) Register(ctx context.Context, email, password, nickname string) (user.User, string, error) {
	if email == "" || password == "" {
		return user.User{}, "", ErrInvalidCredentials
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return user.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Uid:          uuid.NewString(),
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hash),
	})
	if err != nil {
		return user.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.createSession(ctx, created.Id)
	if err != nil {
		// The account exists; the client can still log in.
		log.Errorf("failed to create session for new user %d: %v", created.Id, err)
		return created, "", nil
	}
	return created, token, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return "", ErrInvalidCredentials
	} else if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.createSession(ctx, u.Id)
}

func (s *ServiceImpl) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

func (s *ServiceImpl) DeleteAccount(ctx context.Context, email, password string) error {
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return ErrInvalidCredentials
	} else if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	if err := s.sessions.DeleteSessionsForUser(ctx, u.Id); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return s.users.DeleteUser(ctx, u.Id)
}

func (s *ServiceImpl) Authenticate(ctx context.Context, token string) (user.User, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return user.User{}, err
	}
	if session.ExpiresAt.Before(s.clock.Now()) {
		// Expired sessions are removed lazily on first use.
		if err := s.sessions.DeleteSession(ctx, token); err != nil {
			log.Errorf("failed to delete expired session: %v", err)
		}
		return user.User{}, ErrInvalidToken
	}
	return s.users.GetUser(ctx, session.UserId)
}

func (s *ServiceImpl) createSession(ctx context.Context, userId int) (string, error) {
	session := Session{
		Token:     uuid.NewString(),
		UserId:    userId,
		ExpiresAt: s.clock.Now().Add(sessionTTL),
	}
	if err := s.sessions.StoreSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return session.Token, nil
}
