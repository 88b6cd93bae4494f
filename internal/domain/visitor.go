package domain

import "time"

// VisitorEmail is a stored contact email for a visitor.
type VisitorEmail struct {
	Address string
}

// VisitorPhone is a stored contact phone number for a visitor.
type VisitorPhone struct {
	PhoneNumber string
}

// Visitor models a livechat guest identified by an opaque session token.
// Contact fields are either set (non-empty) or absent, never empty strings.
type Visitor struct {
	ID         string
	Token      string
	Username   string
	Name       string
	Emails     []VisitorEmail
	Phones     []VisitorPhone
	CustomData map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
