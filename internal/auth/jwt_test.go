package auth

import (
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)

	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	return m
}

func TestNewManager_EmptySecret(t *testing.T) {
	_, err := NewManager("", 15*time.Minute, 7*24*time.Hour)

	if err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestAccessToken_ClaimsAndExpiry(t *testing.T) {
	m := newTestManager(t)

	raw, err := m.IssueAccessToken("user-1", "a@x.com")

	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	claims, err := m.VerifyAccessToken(raw)

	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Fatalf("userId claim: got %q want %q", claims.UserID, "user-1")
	}

	if claims.Email != "a@x.com" {
		t.Fatalf("email claim: got %q want %q", claims.Email, "a@x.com")
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)

	if ttl != 15*time.Minute {
		t.Fatalf("access token lifetime: got %v want 15m", ttl)
	}
}

func TestRefreshToken_ClaimsAndExpiry(t *testing.T) {
	m := newTestManager(t)

	raw, expiresAt, err := m.IssueRefreshToken("user-2")

	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	claims, err := m.VerifyRefreshToken(raw)

	if err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}

	if claims.UserID != "user-2" {
		t.Fatalf("userId claim: got %q want %q", claims.UserID, "user-2")
	}

	if claims.Email != "" {
		t.Fatalf("refresh token must not carry an email, got %q", claims.Email)
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)

	if ttl != 7*24*time.Hour {
		t.Fatalf("refresh token lifetime: got %v want 168h", ttl)
	}

	if !claims.ExpiresAt.Time.Equal(expiresAt) {
		t.Fatalf("reported expiry %v does not match encoded expiry %v", expiresAt, claims.ExpiresAt.Time)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	m := newTestManager(t)

	other, err := NewManager("a-different-secret", 15*time.Minute, 7*24*time.Hour)

	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	raw, err := m.IssueAccessToken("user-1", "a@x.com")

	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := other.VerifyAccessToken(raw); err == nil {
		t.Fatalf("token verified with the wrong secret")
	}
}

func TestVerify_TokenTypeMismatch(t *testing.T) {
	m := newTestManager(t)

	access, err := m.IssueAccessToken("user-1", "a@x.com")

	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	refresh, _, err := m.IssueRefreshToken("user-1")

	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	if _, err := m.VerifyRefreshToken(access); err == nil {
		t.Fatalf("access token accepted as refresh token")
	}

	if _, err := m.VerifyAccessToken(refresh); err == nil {
		t.Fatalf("refresh token accepted as access token")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	m, err := NewManager("test-secret-key", -1*time.Second, -1*time.Second)

	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	raw, err := m.IssueAccessToken("user-1", "a@x.com")

	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := m.VerifyAccessToken(raw); err == nil {
		t.Fatalf("expired token verified")
	}
}
