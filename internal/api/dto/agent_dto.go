package dto

import "time"

// AgentLoginRequest payload.
type AgentLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AvailabilityRequest payload for availability toggles.
type AvailabilityRequest struct {
	Availability string `json:"availability"`
}

// PresenceRequest payload for presence sync.
type PresenceRequest struct {
	Presence string `json:"presence"`
}

// OperatorRequest payload for operator role grants.
type OperatorRequest struct {
	Operator bool `json:"operator"`
}

// AgentResponse serializes an agent record for pool listings.
type AgentResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name,omitempty"`
	Presence      string `json:"presence"`
	Availability  string `json:"availability"`
	LivechatCount int64  `json:"livechat_count"`
}
