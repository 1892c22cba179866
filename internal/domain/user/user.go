package user

import (
	"strings"
	"time"
)

// DefaultTier is assigned to every user created through signup.
const DefaultTier = "free"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	DisplayName  string    `json:"displayName"`
	Tier         string    `json:"tier"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the sanitized view returned to clients. It has no hash
// field at all, so a response can never leak one.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Tier      string `json:"tier"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Tier:      u.Tier,
	}
}

// DisplayNameFor falls back to the local part of the email when no first
// name was given.
func DisplayNameFor(firstName, email string) string {
	if firstName != "" {
		return firstName
	}

	local, _, _ := strings.Cut(email, "@")

	return local
}

// NormalizeEmail is the canonical form used for lookups and storage:
// trimmed and lower-cased, so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
