package dto

import "time"

// VisitorRegisterRequest payload for registering a guest session.
type VisitorRegisterRequest struct {
	Token string `json:"token,omitempty"`
	Name  string `json:"name,omitempty"`
}

// VisitorProfileRequest payload for profile upserts. Omitted fields are
// left untouched; fields that trim to empty are removed.
type VisitorProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// VisitorCustomDataRequest payload for custom data writes.
type VisitorCustomDataRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// VisitorResponse serializes a visitor record.
type VisitorResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	Emails    []string  `json:"emails,omitempty"`
	Phones    []string  `json:"phones,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
