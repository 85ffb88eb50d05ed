package models

import "time"

// Identity represents a user resolved by the identity provider from a bearer token.
// Instances are only created by a token verifier after a successful lookup.
type Identity struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	CreatedAt    time.Time              `json:"created_at"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// Metadata returns the provider metadata, never nil
func (i *Identity) Metadata() map[string]interface{} {
	if i.UserMetadata == nil {
		return map[string]interface{}{}
	}
	return i.UserMetadata
}

// DashboardStats holds the per-user dashboard counters
type DashboardStats struct {
	TotalScans    int `json:"total_scans"`
	TotalBooks    int `json:"total_books"`
	PendingReview int `json:"pending_review"`
}
