package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

type SessionRepo interface {
	StoreSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteSessionsForUser(ctx context.Context, userId int) error
}

type SessionRepoImpl struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepoImpl {
	return &SessionRepoImpl{db: db}
}

func (r *SessionRepoImpl) StoreSession(ctx context.Context, session Session) error {
	query := `INSERT INTO session (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, session.Token, session.UserId, session.ExpiresAt.UnixMilli())
	if err != nil {
		log.Errorf("failed to store session: %v", err)
		return err
	}
	return nil
}

func (r *SessionRepoImpl) GetSession(ctx context.Context, token string) (Session, error) {
	query := `SELECT token, user_id, expires_at FROM session WHERE token = $1`
	var session Session
	var expiresAtMillis int64
	err := r.db.QueryRowContext(ctx, query, token).Scan(&session.Token, &session.UserId, &expiresAtMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrInvalidToken
	} else if err != nil {
		log.Errorf("failed to get session: %v", err)
		return Session{}, err
	}
	session.ExpiresAt = time.UnixMilli(expiresAtMillis)
	return session, nil
}

func (r *SessionRepoImpl) DeleteSession(ctx context.Context, token string) error {
	query := `DELETE FROM session WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		log.Errorf("failed to delete session: %v", err)
		return err
	}
	return nil
}

func (r *SessionRepoImpl) DeleteSessionsForUser(ctx context.Context, userId int) error {
	query := `DELETE FROM session WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userId); err != nil {
		log.Errorf("failed to delete sessions for user %d: %v", userId, err)
		return err
	}
	return nil
}
