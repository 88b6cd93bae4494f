package domain

// Assignment identifies the agent selected for an incoming conversation.
// The identity is the pre-increment snapshot of the chosen agent.
type Assignment struct {
	AgentID  string
	Username string
}
