package events

import (
	"time"

	"github.com/spec-kit/livechat-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventConversationDispatched   EventType = "conversation_dispatched"
	EventAgentAvailabilityChanged EventType = "agent_availability_changed"
	EventAgentPresenceChanged     EventType = "agent_presence_changed"
	EventOfficeHoursChanged       EventType = "office_hours_changed"
	EventVisitorRegistered        EventType = "visitor_registered"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ConversationDispatchedPayload payload.
type ConversationDispatchedPayload struct {
	AgentID  string `json:"agent_id"`
	Username string `json:"username"`
}

// AgentAvailabilityChangedPayload payload.
type AgentAvailabilityChangedPayload struct {
	AgentID      string              `json:"agent_id"`
	Availability domain.Availability `json:"availability"`
}

// AgentPresenceChangedPayload payload.
type AgentPresenceChangedPayload struct {
	AgentID  string                `json:"agent_id"`
	Presence domain.PresenceStatus `json:"presence"`
}

// OfficeHoursChangedPayload payload.
type OfficeHoursChangedPayload struct {
	Availability domain.Availability `json:"availability"`
	Updated      int                 `json:"updated"`
	Failed       []string            `json:"failed,omitempty"`
}

// VisitorRegisteredPayload payload.
type VisitorRegisteredPayload struct {
	VisitorID string `json:"visitor_id"`
	Username  string `json:"username"`
}
