// Package apiclient is a typed Go client for the user service. All state
// lives in an explicit Config; errors come back as a typed *APIError
// instead of being duck-typed off a response shape.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Tier      string `json:"tier"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is any non-2xx answer from the service. Fields is populated
// for validation failures, Message for everything else.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error (status %d): %d field violations", e.Status, len(e.Fields))
	}

	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	return c.postAuth(ctx, "/api/v1/auth/signup", req)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	return c.postAuth(ctx, "/api/v1/auth/login", req)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	return c.postAuth(ctx, "/api/v1/auth/refresh", map[string]string{"refreshToken": refreshToken})
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	resp, err := c.post(ctx, "/api/v1/auth/logout", map[string]string{"refreshToken": refreshToken})

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiErrorFrom(resp)
	}

	return nil
}

func (c *Client) postAuth(ctx context.Context, path string, body interface{}) (*AuthResponse, error) {
	resp, err := c.post(ctx, path, body)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apiErrorFrom(resp)
	}

	var out AuthResponse

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)

	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))

	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(req)
}

func apiErrorFrom(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if err != nil {
		apiErr.Message = "unreadable error response"
		return apiErr
	}

	var parsed struct {
		Error  string       `json:"error"`
		Errors []FieldError `json:"errors"`
	}

	if err := json.Unmarshal(data, &parsed); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}

	apiErr.Message = parsed.Error
	apiErr.Fields = parsed.Errors

	return apiErr
}
