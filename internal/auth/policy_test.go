package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/livechat-service/internal/domain"
)

func TestCanDeleteMessage(t *testing.T) {
	author := &Principal{
		Agent: &domain.Agent{ID: "a1"},
		Roles: []domain.Role{domain.RoleAgent},
	}
	manager := &Principal{
		Agent: &domain.Agent{ID: "m1"},
		Roles: []domain.Role{domain.RoleManager},
	}
	agent := &Principal{
		Agent: &domain.Agent{ID: "a2"},
		Roles: []domain.Role{domain.RoleAgent},
	}

	tests := []struct {
		name          string
		principal     *Principal
		authorID      string
		allowDeletion bool
		want          bool
	}{
		{"author deletes own message", author, "a1", false, true},
		{"manager deletes when permitted", manager, "a1", true, true},
		{"manager blocked when setting off", manager, "a1", false, false},
		{"plain agent cannot delete others", agent, "a1", true, false},
		{"nil principal", nil, "a1", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDeleteMessage(tt.principal, tt.authorID, tt.allowDeletion))
		})
	}
}

func TestCanSetAvailability(t *testing.T) {
	manager := &Principal{
		Agent: &domain.Agent{ID: "m1"},
		Roles: []domain.Role{domain.RoleManager},
	}
	agent := &Principal{
		Agent: &domain.Agent{ID: "a1"},
		Roles: []domain.Role{domain.RoleAgent},
	}

	tests := []struct {
		name      string
		principal *Principal
		targetID  string
		want      bool
	}{
		{"agent toggles own availability", agent, "a1", true},
		{"agent cannot toggle another agent", agent, "a2", false},
		{"manager toggles any agent", manager, "a2", true},
		{"manager toggles own availability", manager, "m1", true},
		{"nil principal", nil, "a1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanSetAvailability(tt.principal, tt.targetID))
		})
	}
}
