package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/livechat-service/internal/api/dto"
	"github.com/spec-kit/livechat-service/internal/service"
)

// DispatchHandler exposes the agent selection endpoint to the
// conversation-routing layer.
type DispatchHandler struct {
	dispatch *service.DispatchService
}

// NewDispatchHandler constructs handler.
func NewDispatchHandler(dispatch *service.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatch}
}

// Dispatch handles POST /livechat/dispatch. An empty pool answers with a
// null assignment and 200; the caller decides how to queue the visitor.
func (h *DispatchHandler) Dispatch(c *fiber.Ctx) error {
	var req dto.DispatchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	var (
		assignment *dto.AssignmentResponse
		err        error
	)
	if req.Usernames != nil {
		result, selErr := h.dispatch.SelectAgentFrom(c.UserContext(), req.Usernames)
		err = selErr
		if result != nil {
			assignment = &dto.AssignmentResponse{AgentID: result.AgentID, Username: result.Username}
		}
	} else {
		result, selErr := h.dispatch.SelectAgent(c.UserContext())
		err = selErr
		if result != nil {
			assignment = &dto.AssignmentResponse{AgentID: result.AgentID, Username: result.Username}
		}
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"assignment": assignment,
		},
	})
}
