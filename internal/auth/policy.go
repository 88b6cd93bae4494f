package auth

import "github.com/spec-kit/livechat-service/internal/domain"

// CanDeleteMessage decides whether the principal may delete a chat
// message authored by authorID. Authors may always delete their own
// messages; managers may delete others' messages only when the
// message-deletion setting permits it. Message storage itself lives in
// the surrounding conversation layer.
func CanDeleteMessage(p *Principal, authorID string, allowDeletion bool) bool {
	if p == nil || p.Agent == nil {
		return false
	}
	if p.Agent.ID == authorID {
		return true
	}
	return allowDeletion && p.HasRole(domain.RoleManager)
}

// CanSetAvailability decides whether the principal may change the
// dispatch availability of the agent identified by targetID. Agents
// may only toggle themselves; managers may toggle anyone.
func CanSetAvailability(p *Principal, targetID string) bool {
	if p == nil || p.Agent == nil {
		return false
	}
	if p.HasRole(domain.RoleManager) {
		return true
	}
	return p.Agent.ID == targetID
}
