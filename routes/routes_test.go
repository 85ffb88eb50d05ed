package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spineai/backend/app"
	"github.com/spineai/backend/config"
	"github.com/spineai/backend/models"
	"github.com/spineai/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTokenVerifier is a mock implementation of middleware.TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyToken(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		ServiceName: "Spine.AI",
		Environment: "test",
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
		},
		CORS: config.CORSConfig{FrontendURL: "https://app.spine.ai"},
	}
}

// newTestServer wires the router around a verifier that accepts only valid-abc
func newTestServer(t *testing.T) (*httptest.Server, *MockTokenVerifier) {
	t.Helper()
	verifier := new(MockTokenVerifier)
	verifier.On("VerifyToken", mock.Anything, "valid-abc").Return(&models.Identity{
		ID:           "u1",
		Email:        "a@b.com",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UserMetadata: map[string]interface{}{},
	}, nil).Maybe()
	verifier.On("VerifyToken", mock.Anything, "other-user").Return(&models.Identity{
		ID:    "u2",
		Email: "c@d.com",
	}, nil).Maybe()
	verifier.On("VerifyToken", mock.Anything, mock.Anything).Return(nil,
		services.NewUnauthorizedError(services.ReasonRejected, "identity provider rejected token", errors.New("invalid JWT"))).Maybe()

	deps := app.NewDependenciesWithVerifier(testConfig(), verifier, zap.NewNop())
	ts := httptest.NewServer(SetupRoutes(deps))
	t.Cleanup(ts.Close)
	return ts, verifier
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestPublicEndpoints(t *testing.T) {
	ts, verifier := newTestServer(t)

	for _, token := range []string{"", "valid-abc", "garbage"} {
		t.Run("root with token "+token, func(t *testing.T) {
			resp := get(t, ts.URL+"/", token)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "Spine.AI API is running", decode(t, resp)["message"])
		})

		t.Run("health with token "+token, func(t *testing.T) {
			resp := get(t, ts.URL+"/health", token)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "healthy", decode(t, resp)["status"])
		})
	}

	verifier.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
}

func TestProfileEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("valid token returns identity unchanged", func(t *testing.T) {
		resp := get(t, ts.URL+"/api/user/me", "valid-abc")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, map[string]interface{}{
			"id":            "u1",
			"email":         "a@b.com",
			"created_at":    "2024-01-01T00:00:00Z",
			"user_metadata": map[string]interface{}{},
		}, decode(t, resp))
	})

	t.Run("missing token", func(t *testing.T) {
		resp := get(t, ts.URL+"/api/user/me", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
		assert.Equal(t, "Not authenticated", decode(t, resp)["detail"])
	})

	t.Run("rejected token", func(t *testing.T) {
		resp := get(t, ts.URL+"/api/user/me", "expired")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
		assert.Contains(t, decode(t, resp)["detail"], "Could not validate credentials")
	})
}

func TestDashboardEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, tt := range []struct {
		token, id, email string
	}{
		{"valid-abc", "u1", "a@b.com"},
		{"other-user", "u2", "c@d.com"},
	} {
		t.Run("stats are zero for "+tt.id, func(t *testing.T) {
			resp := get(t, ts.URL+"/api/user/dashboard", tt.token)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body := decode(t, resp)
			assert.Equal(t, "Welcome to your dashboard!", body["message"])
			assert.Equal(t, tt.id, body["user_id"])
			assert.Equal(t, tt.email, body["user_email"])
			assert.Equal(t, map[string]interface{}{
				"total_scans":    float64(0),
				"total_books":    float64(0),
				"pending_review": float64(0),
			}, body["stats"])
		})
	}

	t.Run("rejected token", func(t *testing.T) {
		resp := get(t, ts.URL+"/api/user/dashboard", "expired")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
	})

	t.Run("malformed header never reaches verifier", func(t *testing.T) {
		ts, verifier := newTestServer(t)

		req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/user/dashboard", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
		verifier.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
	})
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name        string
		origin      string
		wantAllowed bool
	}{
		{name: "local dev origin", origin: "http://localhost:3000", wantAllowed: true},
		{name: "configured frontend", origin: "https://app.spine.ai", wantAllowed: true},
		{name: "unknown origin", origin: "https://evil.example.com", wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/user/me", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Custom-Header")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			if tt.wantAllowed {
				assert.Equal(t, tt.origin, resp.Header.Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/health", "")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "endpoint not found", body["message"])
}
