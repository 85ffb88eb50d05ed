package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spineai/backend/models"
)

var (
	// ErrRequestFailed is returned when the auth API cannot be reached
	ErrRequestFailed = errors.New("supabase auth request failed")

	// ErrDecodeFailed is returned when the auth API response cannot be decoded
	ErrDecodeFailed = errors.New("failed to decode supabase auth response")
)

// userPath is the GoTrue endpoint resolving an access token to its user
const userPath = "/auth/v1/user"

// maxErrorBody bounds how much of an error response is read
const maxErrorBody = 4096

// User is the subset of the GoTrue user record the API consumes
type User struct {
	ID           string                 `json:"id"`
	Aud          string                 `json:"aud"`
	Role         string                 `json:"role"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	CreatedAt    time.Time              `json:"created_at"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// Identity converts the provider record into an authenticated identity
func (u *User) Identity() *models.Identity {
	return &models.Identity{
		ID:           u.ID,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
		UserMetadata: u.UserMetadata,
	}
}

// APIError is a non-200 answer from the auth API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase auth: status %d: %s (%s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("supabase auth: status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the provider failed rather than rejected the token
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Config holds configuration for Client
type Config struct {
	URL    string
	APIKey string
	// HTTPTimeout of zero leaves the deadline to the request context
	HTTPTimeout time.Duration
	HTTPClient  *http.Client
}

// Client talks to the Supabase Auth (GoTrue) REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Supabase auth client
func NewClient(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.HTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(config.URL, "/"),
		apiKey:     config.APIKey,
		httpClient: httpClient,
	}
}

// GetUser resolves an access token to the user it was issued for
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return &user, nil
}

// parseAPIError reads the GoTrue error body. Older servers use msg/message,
// newer ones add error_code; OAuth style errors use error/error_description.
func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorCode        string `json:"error_code"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = firstNonEmpty(payload.ErrorCode, payload.Error)
		apiErr.Message = firstNonEmpty(payload.Msg, payload.Message, payload.ErrorDescription)
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
