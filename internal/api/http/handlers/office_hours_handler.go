package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/livechat-service/internal/service"
)

// OfficeHoursHandler exposes the bulk availability toggles.
type OfficeHoursHandler struct {
	officeHours *service.OfficeHoursService
}

// NewOfficeHoursHandler constructs handler.
func NewOfficeHoursHandler(officeHours *service.OfficeHoursService) *OfficeHoursHandler {
	return &OfficeHoursHandler{officeHours: officeHours}
}

// Open handles POST /livechat/office-hours/open.
func (h *OfficeHoursHandler) Open(c *fiber.Ctx) error {
	result, err := h.officeHours.OpenOffice(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(toggleResponse(result))
}

// Close handles POST /livechat/office-hours/close.
func (h *OfficeHoursHandler) Close(c *fiber.Ctx) error {
	result, err := h.officeHours.CloseOffice(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(toggleResponse(result))
}

func toggleResponse(result *service.BulkToggleResult) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"updated": result.Updated,
			"failed":  result.Failed,
		},
	}
}
