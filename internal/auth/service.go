package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mariekewagner2302-lang/travelplanner/internal/domain/session"
	"github.com/mariekewagner2302-lang/travelplanner/internal/domain/user"
	"github.com/mariekewagner2302-lang/travelplanner/internal/repo"
	"github.com/mariekewagner2302-lang/travelplanner/internal/security"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, s session.Session) (session.Session, error)
	GetByToken(ctx context.Context, refreshToken string) (session.Session, error)
	Delete(ctx context.Context, id string) error
}

// Precomputed bcrypt hash of a throwaway string. Login runs a comparison
// against it when the email is unknown so both failure causes cost
// roughly one hash.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginInput struct {
	Email    string
	Password string
}

// Result is what both workflows hand back on success: the sanitized user
// plus the freshly issued token pair.
type Result struct {
	User         user.PublicUser
	AccessToken  string
	RefreshToken string
}

// Service composes the credential store, the password hasher, the token
// manager and the session recorder into the signup/login workflows.
type Service struct {
	users    UserStore
	sessions SessionStore
	tokens   *Manager
	log      *slog.Logger
	newID    func() string
	now      func() time.Time
}

func NewService(users UserStore, sessions SessionStore, tokens *Manager, log *slog.Logger, newID func() string) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		log:      log,
		newID:    newID,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (Result, error) {
	email := user.NormalizeEmail(in.Email)

	_, err := s.users.GetByEmail(ctx, email)

	if err == nil {
		return Result{}, ErrEmailTaken
	}

	if !errors.Is(err, repo.ErrUserNotFound) {
		return Result{}, err
	}

	hash, err := security.HashPassword(in.Password)

	if err != nil {
		return Result{}, err
	}

	now := s.now()

	u := user.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DisplayName:  user.DisplayNameFor(in.FirstName, email),
		Tier:         user.DefaultTier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, u)

	if err != nil {
		// two concurrent signups can both pass the lookup; the store's
		// uniqueness constraint decides the loser
		if errors.Is(err, repo.ErrEmailTaken) {
			return Result{}, ErrEmailTaken
		}

		return Result{}, err
	}

	return s.issueAndRecord(ctx, created)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Result, error) {
	email := user.NormalizeEmail(in.Email)

	u, err := s.users.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			// burn a hash so "no such user" costs the same as "wrong password"
			security.VerifyPassword(dummyHash, in.Password)
			return Result{}, ErrInvalidCredentials
		}

		return Result{}, err
	}

	if u.PasswordHash == "" || !security.VerifyPassword(u.PasswordHash, in.Password) {
		return Result{}, ErrInvalidCredentials
	}

	return s.issueAndRecord(ctx, u)
}

// Refresh validates a presented refresh token against its stored session,
// then rotates it: the old session row is deleted and a fresh token pair
// with a fresh row takes its place.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Result, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)

	if err != nil {
		return Result{}, ErrInvalidRefreshToken
	}

	sess, err := s.sessions.GetByToken(ctx, refreshToken)

	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			return Result{}, ErrInvalidRefreshToken
		}

		return Result{}, err
	}

	if sess.UserID != claims.UserID || sess.Expired(s.now()) {
		return Result{}, ErrInvalidRefreshToken
	}

	// refresh claims carry only the user id
	u, err := s.users.GetByID(ctx, sess.UserID)

	if err != nil {
		return Result{}, err
	}

	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return Result{}, err
	}

	return s.issueAndRecord(ctx, u)
}

// Logout deletes the session belonging to the presented refresh token.
// Unknown tokens are not an error; logout is idempotent.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	sess, err := s.sessions.GetByToken(ctx, refreshToken)

	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			return nil
		}

		return err
	}

	return s.sessions.Delete(ctx, sess.ID)
}

func (s *Service) issueAndRecord(ctx context.Context, u user.User) (Result, error) {
	accessToken, err := s.tokens.IssueAccessToken(u.ID, u.Email)

	if err != nil {
		return Result{}, err
	}

	refreshToken, expiresAt, err := s.tokens.IssueRefreshToken(u.ID)

	if err != nil {
		return Result{}, err
	}

	sess := session.Session{
		ID:           s.newID(),
		UserID:       u.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		CreatedAt:    s.now(),
	}

	if _, err := s.sessions.Create(ctx, sess); err != nil {
		// the user row is already committed at this point; no compensating
		// rollback exists, so make the inconsistency loud
		s.log.ErrorContext(ctx, "session persistence failed after token issuance",
			"user_id", u.ID, "err", err)
		return Result{}, err
	}

	return Result{
		User:         u.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
