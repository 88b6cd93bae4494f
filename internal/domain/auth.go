package domain

import "time"

// Token is an issued agent session credential together with its
// metadata. Value carries the signed string handed to the client.
type Token struct {
	Value     string
	AgentID   string
	Roles     []Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
