package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mariekewagner2302-lang/travelplanner/internal/auth"
	apphttp "github.com/mariekewagner2302-lang/travelplanner/internal/http"
	"github.com/mariekewagner2302-lang/travelplanner/internal/repo/memory"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)

	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := auth.NewService(memory.NewUsersRepo(), memory.NewSessionsRepo(), tokens, log, uuid.NewString)

	return apphttp.NewRouter(apphttp.RouterOptions{
		Env:  "test",
		Log:  log,
		Auth: svc,
		Ping: func() error { return nil },
	})
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

type authResponse struct {
	User struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		Tier      string `json:"tier"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func TestSignup_Created(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", `{"email":"a@x.com","password":"password1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d want 201, body=%s", w.Code, w.Body.String())
	}

	var resp authResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, w.Body.String())
	}

	if resp.User.Email != "a@x.com" {
		t.Fatalf("user.email: got %q", resp.User.Email)
	}

	if resp.User.Tier != "free" {
		t.Fatalf("user.tier: got %q want free", resp.User.Tier)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected both tokens, body=%s", w.Body.String())
	}

	// the sanitized view must not leak hash-like fields
	var raw map[string]map[string]interface{}

	_ = json.Unmarshal(w.Body.Bytes(), &raw)

	for _, key := range []string{"password", "passwordHash", "password_hash"} {
		if _, ok := raw["user"][key]; ok {
			t.Fatalf("user view leaked %q: %s", key, w.Body.String())
		}
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	router := setupRouter(t)

	if w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", `{"email":"a@x.com","password":"password1"}`); w.Code != http.StatusCreated {
		t.Fatalf("first signup: got %d", w.Code)
	}

	w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", `{"email":"a@x.com","password":"password1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Error != "Email already registered" {
		t.Fatalf("error message: got %q", resp.Error)
	}
}

func TestSignup_ValidationErrors(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", `{"email":"bad-email","password":"short"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, w.Body.String())
	}

	found := map[string]string{}

	for _, fe := range resp.Errors {
		found[fe.Field] = fe.Message
	}

	if _, ok := found["email"]; !ok {
		t.Fatalf("missing email violation: %s", w.Body.String())
	}

	if msg, ok := found["password"]; !ok || msg != "must be at least 8 characters" {
		t.Fatalf("password violation: got %q ok=%v", msg, ok)
	}
}

func TestLogin_InvalidCredentialBodiesAreIdentical(t *testing.T) {
	router := setupRouter(t)

	if w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", `{"email":"a@x.com","password":"password1"}`); w.Code != http.StatusCreated {
		t.Fatalf("signup: got %d", w.Code)
	}

	wrongPassword := doJSON(router, http.MethodPost, "/api/v1/auth/login", `{"email":"a@x.com","password":"wrong-password"}`)
	unknownEmail := doJSON(router, http.MethodPost, "/api/v1/auth/login", `{"email":"missing@x.com","password":"anything1"}`)

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status: got %d want 401", wrongPassword.Code)
	}

	if unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email status: got %d want 401", unknownEmail.Code)
	}

	if !bytes.Equal(wrongPassword.Body.Bytes(), unknownEmail.Body.Bytes()) {
		t.Fatalf("bodies differ:\n%s\n%s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestLogin_Success(t *testing.T) {
	router := setupRouter(t)

	if w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", `{"email":"a@x.com","password":"password1","firstName":"Anna"}`); w.Code != http.StatusCreated {
		t.Fatalf("signup: got %d", w.Code)
	}

	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", `{"email":"a@x.com","password":"password1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200, body=%s", w.Code, w.Body.String())
	}

	var resp authResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.User.FirstName != "Anna" {
		t.Fatalf("user.firstName: got %q", resp.User.FirstName)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected both tokens")
	}
}

func TestRefreshAndLogout_Flow(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/signup", `{"email":"a@x.com","password":"password1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("signup: got %d", w.Code)
	}

	var signup authResponse

	if err := json.Unmarshal(w.Body.Bytes(), &signup); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	refreshBody, _ := json.Marshal(map[string]string{"refreshToken": signup.RefreshToken})

	w = doJSON(router, http.MethodPost, "/api/v1/auth/refresh", string(refreshBody))

	if w.Code != http.StatusOK {
		t.Fatalf("refresh: got %d body=%s", w.Code, w.Body.String())
	}

	var refreshed authResponse

	if err := json.Unmarshal(w.Body.Bytes(), &refreshed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if refreshed.RefreshToken == signup.RefreshToken {
		t.Fatalf("refresh must rotate the token")
	}

	// the rotated token is dead
	w = doJSON(router, http.MethodPost, "/api/v1/auth/refresh", string(refreshBody))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("reused token: got %d want 401", w.Code)
	}

	logoutBody, _ := json.Marshal(map[string]string{"refreshToken": refreshed.RefreshToken})

	w = doJSON(router, http.MethodPost, "/api/v1/auth/logout", string(logoutBody))

	if w.Code != http.StatusNoContent {
		t.Fatalf("logout: got %d want 204", w.Code)
	}

	newRefreshBody, _ := json.Marshal(map[string]string{"refreshToken": refreshed.RefreshToken})

	w = doJSON(router, http.MethodPost, "/api/v1/auth/refresh", string(newRefreshBody))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: got %d want 401", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", w.Code)
	}

	var resp struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Status != "ok" || resp.Service != "user-service" {
		t.Fatalf("unexpected health body: %s", w.Body.String())
	}
}

func TestAuthRoutes_RequireJSONContentType(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBufferString(`{"email":"a@x.com","password":"password1"}`))
	req.Header.Set("Content-Type", "text/plain")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status: got %d want 415", w.Code)
	}
}
