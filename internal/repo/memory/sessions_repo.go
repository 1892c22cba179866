package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mariekewagner2302-lang/travelplanner/internal/domain/session"
	"github.com/mariekewagner2302-lang/travelplanner/internal/repo"
)

type SessionsRepo struct {
	mu      sync.RWMutex
	byID    map[string]session.Session
	byToken map[string]string // refresh token -> id
}

func NewSessionsRepo() *SessionsRepo {
	return &SessionsRepo{
		byID:    make(map[string]session.Session),
		byToken: make(map[string]string),
	}
}

func (r *SessionsRepo) Create(_ context.Context, s session.Session) (session.Session, error) {
	r.mu.Lock()
	r.byID[s.ID] = s
	r.byToken[s.RefreshToken] = s.ID
	r.mu.Unlock()

	return s, nil
}

func (r *SessionsRepo) GetByToken(_ context.Context, refreshToken string) (session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[refreshToken]

	if !ok {
		return session.Session{}, repo.ErrSessionNotFound
	}

	return r.byID[id], nil
}

func (r *SessionsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]

	if ok {
		delete(r.byToken, s.RefreshToken)
		delete(r.byID, id)
	}

	return nil
}

func (r *SessionsRepo) DeleteAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.byID {
		if s.UserID == userID {
			delete(r.byToken, s.RefreshToken)
			delete(r.byID, id)
		}
	}

	return nil
}

func (r *SessionsRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64

	for id, s := range r.byID {
		if s.Expired(now) {
			delete(r.byToken, s.RefreshToken)
			delete(r.byID, id)
			n++
		}
	}

	return n, nil
}

// CountForUser is a test helper; the HTTP surface never exposes it.
func (r *SessionsRepo) CountForUser(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0

	for _, s := range r.byID {
		if s.UserID == userID {
			n++
		}
	}

	return n
}
