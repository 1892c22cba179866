package repo

import (
	"context"

	"github.com/mariekewagner2302-lang/travelplanner/internal/domain/session"
	"github.com/mariekewagner2302-lang/travelplanner/internal/domain/user"
	"github.com/mariekewagner2302-lang/travelplanner/internal/observability"
)

// Decorators that record per-op DB metrics around any store
// implementation. Wired in main; tests use the bare stores.

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

type InstrumentedUsers struct {
	next UserStore
	prom *observability.Prom
}

func InstrumentUsers(next UserStore, prom *observability.Prom) *InstrumentedUsers {
	return &InstrumentedUsers{next: next, prom: prom}
}

func (r *InstrumentedUsers) GetByEmail(ctx context.Context, email string) (u user.User, err error) {
	_ = r.prom.ObserveDB("users.get_by_email", func() error {
		u, err = r.next.GetByEmail(ctx, email)
		return ignoreNotFound(err)
	})
	return
}

func (r *InstrumentedUsers) GetByID(ctx context.Context, id string) (u user.User, err error) {
	_ = r.prom.ObserveDB("users.get_by_id", func() error {
		u, err = r.next.GetByID(ctx, id)
		return ignoreNotFound(err)
	})
	return
}

func (r *InstrumentedUsers) Create(ctx context.Context, in user.User) (u user.User, err error) {
	_ = r.prom.ObserveDB("users.create", func() error {
		u, err = r.next.Create(ctx, in)
		return err
	})
	return
}

type InstrumentedSessions struct {
	next SessionStore
	prom *observability.Prom
}

func InstrumentSessions(next SessionStore, prom *observability.Prom) *InstrumentedSessions {
	return &InstrumentedSessions{next: next, prom: prom}
}

func (r *InstrumentedSessions) Create(ctx context.Context, in session.Session) (s session.Session, err error) {
	_ = r.prom.ObserveDB("sessions.create", func() error {
		s, err = r.next.Create(ctx, in)
		return err
	})
	return
}

func (r *InstrumentedSessions) GetByToken(ctx context.Context, refreshToken string) (s session.Session, err error) {
	_ = r.prom.ObserveDB("sessions.get_by_token", func() error {
		s, err = r.next.GetByToken(ctx, refreshToken)
		return ignoreNotFound(err)
	})
	return
}

func (r *InstrumentedSessions) Delete(ctx context.Context, id string) error {
	return r.prom.ObserveDB("sessions.delete", func() error {
		return r.next.Delete(ctx, id)
	})
}

// misses are domain outcomes, not DB faults
func ignoreNotFound(err error) error {
	switch err {
	case ErrUserNotFound, ErrSessionNotFound:
		return nil
	}
	return err
}
