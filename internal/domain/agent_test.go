package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentEligible(t *testing.T) {
	base := Agent{
		Username:     "alice",
		Roles:        []Role{RoleAgent},
		Presence:     PresenceOnline,
		Availability: Available,
	}

	tests := []struct {
		name   string
		mutate func(*Agent)
		want   bool
	}{
		{"online and available", func(*Agent) {}, true},
		{"away still eligible", func(a *Agent) { a.Presence = PresenceAway }, true},
		{"busy still eligible", func(a *Agent) { a.Presence = PresenceBusy }, true},
		{"offline", func(a *Agent) { a.Presence = PresenceOffline }, false},
		{"not available", func(a *Agent) { a.Availability = NotAvailable }, false},
		{"missing agent role", func(a *Agent) { a.Roles = []Role{RoleManager} }, false},
		{"no roles", func(a *Agent) { a.Roles = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := base
			tt.mutate(&agent)
			assert.Equal(t, tt.want, agent.Eligible())
		})
	}
}
