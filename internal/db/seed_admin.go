package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mariekewagner2302-lang/travelplanner/internal/config"
	"github.com/mariekewagner2302-lang/travelplanner/internal/domain/user"
	"github.com/mariekewagner2302-lang/travelplanner/internal/security"
)

// EnsureAdminUser creates the operator account on first boot when
// ADMIN_EMAIL/ADMIN_PASSWORD are configured. Idempotent.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	email := user.NormalizeEmail(cfg.AdminEmail)

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    cfg.AdminName,
		DisplayName:  user.DisplayNameFor(cfg.AdminName, email),
		Tier:         user.DefaultTier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, display_name, tier, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.DisplayName, u.Tier, u.CreatedAt, u.UpdatedAt,
	)

	return err
}
