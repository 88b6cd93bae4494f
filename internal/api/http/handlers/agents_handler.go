package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/livechat-service/internal/api/dto"
	"github.com/spec-kit/livechat-service/internal/auth"
	"github.com/spec-kit/livechat-service/internal/domain"
	"github.com/spec-kit/livechat-service/internal/service"
)

// AgentsHandler exposes agent pool and session endpoints.
type AgentsHandler struct {
	auth *service.AuthService
	pool *service.AgentPoolService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(authService *service.AuthService, pool *service.AgentPoolService) *AgentsHandler {
	return &AgentsHandler{auth: authService, pool: pool}
}

// Login handles POST /auth/agents/login.
func (h *AgentsHandler) Login(c *fiber.Ctx) error {
	var req dto.AgentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	agent, token, err := h.auth.LoginAgent(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"agent": fiber.Map{
				"id":       agent.ID,
				"username": agent.Username,
			},
			"auth": dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt},
		},
	})
}

// List handles GET /livechat/agents. With ?eligible=true only the
// dispatchable subset is returned.
func (h *AgentsHandler) List(c *fiber.Ctx) error {
	var (
		agents []domain.Agent
		err    error
	)
	if c.QueryBool("eligible") {
		agents, err = h.pool.ListEligibleAgents(c.UserContext())
	} else {
		agents, err = h.pool.ListAllAgents(c.UserContext())
	}
	if err != nil {
		return err
	}

	responses := make([]dto.AgentResponse, 0, len(agents))
	for _, agent := range agents {
		responses = append(responses, agentResponse(&agent))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"agents": responses}})
}

// SetAvailability handles PUT /livechat/agents/:id/availability.
func (h *AgentsHandler) SetAvailability(c *fiber.Ctx) error {
	var req dto.AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	value := domain.Availability(req.Availability)
	if value != domain.Available && value != domain.NotAvailable {
		return fiber.NewError(http.StatusBadRequest, "availability must be available or not-available")
	}

	principal, ok := auth.PrincipalFromContext(c)
	if !ok || !auth.CanSetAvailability(principal, c.Params("id")) {
		return fiber.NewError(http.StatusForbidden, "availability can only be changed for your own account")
	}

	if err := h.pool.SetAvailability(c.UserContext(), c.Params("id"), value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// SetPresence handles PUT /livechat/agents/:id/presence.
func (h *AgentsHandler) SetPresence(c *fiber.Ctx) error {
	var req dto.PresenceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	value := domain.PresenceStatus(req.Presence)
	switch value {
	case domain.PresenceOnline, domain.PresenceAway, domain.PresenceBusy, domain.PresenceOffline:
	default:
		return fiber.NewError(http.StatusBadRequest, "unknown presence status")
	}

	if err := h.pool.SetPresence(c.UserContext(), c.Params("id"), value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// SetOperator handles PUT /livechat/agents/:id/operator.
func (h *AgentsHandler) SetOperator(c *fiber.Ctx) error {
	var req dto.OperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.pool.SetOperator(c.UserContext(), c.Params("id"), req.Operator); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

func agentResponse(agent *domain.Agent) dto.AgentResponse {
	return dto.AgentResponse{
		ID:            agent.ID,
		Username:      agent.Username,
		Name:          agent.Name,
		Presence:      string(agent.Presence),
		Availability:  string(agent.Availability),
		LivechatCount: agent.LivechatCount,
	}
}
