package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/livechat-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)

	token, err := tm.GenerateToken("agent-1", []domain.Role{domain.RoleAgent, domain.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "agent-1", token.AgentID)
	assert.Equal(t, []domain.Role{domain.RoleAgent, domain.RoleManager}, token.Roles)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), token.ExpiresAt, 5*time.Second)
	assert.True(t, token.IssuedAt.Before(token.ExpiresAt))

	claims, err := tm.ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", claims.AgentID)
	assert.Equal(t, []domain.Role{domain.RoleAgent, domain.RoleManager}, claims.Roles)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	other := NewTokenManager("different", 30)

	token, err := tm.GenerateToken("agent-1", nil)
	require.NoError(t, err)

	_, err = other.ParseToken(token.Value)
	assert.Error(t, err)
}
