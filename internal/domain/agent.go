package domain

import "time"

// Role enumerates livechat roles carried by user accounts.
type Role string

const (
	RoleAgent   Role = "livechat-agent"
	RoleManager Role = "livechat-manager"
)

// PresenceStatus is the externally driven connection status of an agent.
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceBusy    PresenceStatus = "busy"
	PresenceOffline PresenceStatus = "offline"
)

// Availability is the livechat duty status toggled by agents or office hours.
type Availability string

const (
	Available    Availability = "available"
	NotAvailable Availability = "not-available"
)

// Agent models a support operator eligible to receive visitor conversations.
type Agent struct {
	ID            string
	Username      string
	Name          string
	Email         string
	PasswordHash  string
	Roles         []Role
	Presence      PresenceStatus
	Availability  Availability
	LivechatCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasRole reports whether the agent carries the given role.
func (a *Agent) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Eligible reports whether the agent can be dispatched a conversation:
// connected, on duty, and holding the agent role.
func (a *Agent) Eligible() bool {
	return a.Presence != PresenceOffline &&
		a.Availability == Available &&
		a.HasRole(RoleAgent)
}
