package dto

// DispatchRequest optionally restricts candidates to a username whitelist.
type DispatchRequest struct {
	Usernames []string `json:"usernames,omitempty"`
}

// AssignmentResponse carries the selected agent, or null when the pool
// is empty.
type AssignmentResponse struct {
	AgentID  string `json:"agent_id"`
	Username string `json:"username"`
}
