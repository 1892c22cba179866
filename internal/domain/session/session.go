package session

import "time"

// Session is one issued refresh token, persisted so it can later be
// validated, rotated or revoked. A user accumulates one row per
// signup/login; nothing enforces a single active session.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
