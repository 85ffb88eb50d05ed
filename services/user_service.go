package services

import (
	"time"

	"github.com/spineai/backend/models"
)

// DashboardWelcome is the fixed greeting returned by the dashboard
const DashboardWelcome = "Welcome to your dashboard!"

// Profile is the public view of an authenticated identity
type Profile struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	CreatedAt    time.Time              `json:"created_at"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// Dashboard is the dashboard payload for an authenticated identity
type Dashboard struct {
	Message   string                `json:"message"`
	UserID    string                `json:"user_id"`
	UserEmail string                `json:"user_email"`
	Stats     models.DashboardStats `json:"stats"`
}

// UserService builds user-facing views from an authenticated identity.
// It holds no state and is safe for concurrent use.
type UserService struct{}

// NewUserService creates a new UserService
func NewUserService() *UserService {
	return &UserService{}
}

// Profile returns the identity fields unchanged
func (s *UserService) Profile(identity *models.Identity) (*Profile, error) {
	if identity == nil {
		return nil, NewUnauthorizedError(ReasonMissingToken, "authentication required", nil)
	}
	return &Profile{
		ID:           identity.ID,
		Email:        identity.Email,
		CreatedAt:    identity.CreatedAt,
		UserMetadata: identity.Metadata(),
	}, nil
}

// Dashboard returns the dashboard for the identity. Stats are placeholders
// until scans and books are tracked.
func (s *UserService) Dashboard(identity *models.Identity) (*Dashboard, error) {
	if identity == nil {
		return nil, NewUnauthorizedError(ReasonMissingToken, "authentication required", nil)
	}
	return &Dashboard{
		Message:   DashboardWelcome,
		UserID:    identity.ID,
		UserEmail: identity.Email,
		Stats:     models.DashboardStats{},
	}, nil
}
