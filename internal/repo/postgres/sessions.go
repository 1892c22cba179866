package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mariekewagner2302-lang/travelplanner/internal/domain/session"
	"github.com/mariekewagner2302-lang/travelplanner/internal/repo"
)

type SessionsRepo struct {
	pool *pgxpool.Pool
}

func NewSessionsRepo(pool *pgxpool.Pool) *SessionsRepo {
	return &SessionsRepo{pool: pool}
}

func (r *SessionsRepo) Create(ctx context.Context, s session.Session) (session.Session, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, refresh_token, expires_at, created_at)
		VALUES ($1,$2,$3,$4,$5)
		`,
		s.ID, s.UserID, s.RefreshToken, s.ExpiresAt, s.CreatedAt,
	)

	if err != nil {
		return session.Session{}, err
	}

	return s, nil
}

func (r *SessionsRepo) GetByToken(ctx context.Context, refreshToken string) (session.Session, error) {
	var s session.Session

	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, refresh_token, expires_at, created_at
		FROM sessions
		WHERE refresh_token = $1`,
		refreshToken,
	).Scan(
		&s.ID,
		&s.UserID,
		&s.RefreshToken,
		&s.ExpiresAt,
		&s.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, repo.ErrSessionNotFound
		}

		return session.Session{}, err
	}

	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)

	return err
}

func (r *SessionsRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)

	return err
}

// DeleteExpired reaps rows whose expiry has passed. Nothing deletes them
// on expiry otherwise; the reaper in main calls this on a timer.
func (r *SessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)

	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
