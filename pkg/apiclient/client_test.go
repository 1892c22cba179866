package apiclient_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mariekewagner2302-lang/travelplanner/internal/auth"
	apphttp "github.com/mariekewagner2302-lang/travelplanner/internal/http"
	"github.com/mariekewagner2302-lang/travelplanner/internal/repo/memory"
	"github.com/mariekewagner2302-lang/travelplanner/pkg/apiclient"
)

func setupServer(t *testing.T) *apiclient.Client {
	t.Helper()

	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)

	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := auth.NewService(memory.NewUsersRepo(), memory.NewSessionsRepo(), tokens, log, uuid.NewString)

	router := apphttp.NewRouter(apphttp.RouterOptions{
		Env:  "test",
		Log:  log,
		Auth: svc,
	})

	srv := httptest.NewServer(router)

	t.Cleanup(srv.Close)

	return apiclient.New(apiclient.Config{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
}

func TestClient_SignupLoginRefreshLogout(t *testing.T) {
	client := setupServer(t)
	ctx := context.Background()

	signup, err := client.Signup(ctx, apiclient.SignupRequest{
		Email:     "a@x.com",
		Password:  "password1",
		FirstName: "Anna",
	})

	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if signup.User.Email != "a@x.com" || signup.User.Tier != "free" {
		t.Fatalf("unexpected user: %+v", signup.User)
	}

	login, err := client.Login(ctx, apiclient.LoginRequest{Email: "a@x.com", Password: "password1"})

	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if login.User.ID != signup.User.ID {
		t.Fatalf("login user mismatch: %q vs %q", login.User.ID, signup.User.ID)
	}

	refreshed, err := client.Refresh(ctx, login.RefreshToken)

	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("refresh did not rotate the token")
	}

	if err := client.Logout(ctx, refreshed.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := client.Refresh(ctx, refreshed.RefreshToken); err == nil {
		t.Fatalf("refresh after logout should fail")
	}
}

func TestClient_ValidationErrorsAreTyped(t *testing.T) {
	client := setupServer(t)

	_, err := client.Signup(context.Background(), apiclient.SignupRequest{
		Email:    "bad-email",
		Password: "short",
	})

	var apiErr *apiclient.APIError

	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T: %v", err, err)
	}

	if apiErr.Status != 400 {
		t.Fatalf("status: got %d want 400", apiErr.Status)
	}

	if len(apiErr.Fields) != 2 {
		t.Fatalf("want 2 field violations, got %+v", apiErr.Fields)
	}
}

func TestClient_InvalidCredentials(t *testing.T) {
	client := setupServer(t)
	ctx := context.Background()

	if _, err := client.Signup(ctx, apiclient.SignupRequest{Email: "a@x.com", Password: "password1"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, err := client.Login(ctx, apiclient.LoginRequest{Email: "a@x.com", Password: "wrong-password"})

	var apiErr *apiclient.APIError

	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T: %v", err, err)
	}

	if apiErr.Status != 401 {
		t.Fatalf("status: got %d want 401", apiErr.Status)
	}

	if apiErr.Message != "Invalid email or password" {
		t.Fatalf("message: got %q", apiErr.Message)
	}
}
