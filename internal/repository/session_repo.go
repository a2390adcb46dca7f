package repository

import (
	"context"
	"errors"
	"time"

	"tasktracker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, userID uuid.UUID, token, ip, userAgent string, expiresAt time.Time) (*domain.Session, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO session (token, user_id, expires_at, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, token, user_id, expires_at, ip_address, user_agent, created_at`,
		token, userID, expiresAt, ip, userAgent,
	)
	return scanSession(row)
}

// GetActive returns the session only while it has not expired.
func (r *SessionRepository) GetActive(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, token, user_id, expires_at, ip_address, user_agent, created_at
		 FROM session
		 WHERE id = $1 AND expires_at > now()`,
		id,
	)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM session WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteByUser revokes every session of a user, used when banning.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM session WHERE user_id = $1`, userID)
	return err
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	if err := row.Scan(
		&s.ID,
		&s.Token,
		&s.UserID,
		&s.ExpiresAt,
		&s.IPAddress,
		&s.UserAgent,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
