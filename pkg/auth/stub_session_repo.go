package auth

import (
	"context"
)

type StubSessionRepo struct {
	data map[string]Session
}

func NewStubSessionRepo() *StubSessionRepo {
	return &StubSessionRepo{data: map[string]Session{}}
}

func (s *StubSessionRepo) StoreSession(ctx context.Context, session Session) error {
	s.data[session.Token] = session
	return nil
}

func (s *StubSessionRepo) GetSession(ctx context.Context, token string) (Session, error) {
	session, ok := s.data[token]
	if !ok {
		return Session{}, ErrInvalidToken
	}
	return session, nil
}

func (s *StubSessionRepo) DeleteSession(ctx context.Context, token string) error {
	delete(s.data, token)
	return nil
}

func (s *StubSessionRepo) DeleteSessionsForUser(ctx context.Context, userId int) error {
	for token, session := range s.data {
		if session.UserId == userId {
			delete(s.data, token)
		}
	}
	return nil
}
