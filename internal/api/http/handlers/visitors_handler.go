package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/livechat-service/internal/api/dto"
	"github.com/spec-kit/livechat-service/internal/domain"
	"github.com/spec-kit/livechat-service/internal/service"
)

// VisitorsHandler exposes visitor identity endpoints.
type VisitorsHandler struct {
	visitors *service.VisitorService
}

// NewVisitorsHandler constructs handler.
func NewVisitorsHandler(visitors *service.VisitorService) *VisitorsHandler {
	return &VisitorsHandler{visitors: visitors}
}

// Register handles POST /livechat/visitors.
func (h *VisitorsHandler) Register(c *fiber.Ctx) error {
	var req dto.VisitorRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	visitor, err := h.visitors.RegisterGuest(c.UserContext(), req.Token, req.Name)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"visitor": visitorResponse(visitor)},
	})
}

// Lookup handles GET /livechat/visitors with a token, email or phone
// query parameter. A miss answers 200 with a null visitor; absence is
// not an error.
func (h *VisitorsHandler) Lookup(c *fiber.Ctx) error {
	var (
		visitor *domain.Visitor
		err     error
	)
	switch {
	case c.Query("token") != "":
		visitor, err = h.visitors.ResolveByToken(c.UserContext(), c.Query("token"))
	case c.Query("email") != "":
		visitor, err = h.visitors.FindByEmail(c.UserContext(), c.Query("email"))
	case c.Query("phone") != "":
		visitor, err = h.visitors.FindByPhone(c.UserContext(), c.Query("phone"))
	default:
		return fiber.NewError(http.StatusBadRequest, "token, email or phone query required")
	}
	if err != nil {
		return err
	}

	if visitor == nil {
		return c.JSON(fiber.Map{"data": fiber.Map{"visitor": nil}})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"visitor": visitorResponse(visitor)}})
}

// UpdateProfile handles PATCH /livechat/visitors/:id/profile.
func (h *VisitorsHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.VisitorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	err := h.visitors.UpsertProfile(c.UserContext(), c.Params("id"), service.ProfilePatch{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// UpdateCustomData handles PUT /livechat/visitors/:token/custom-data.
func (h *VisitorsHandler) UpdateCustomData(c *fiber.Ctx) error {
	var req dto.VisitorCustomDataRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.visitors.UpdateCustomData(c.UserContext(), c.Params("token"), req.Key, req.Value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

func visitorResponse(visitor *domain.Visitor) dto.VisitorResponse {
	resp := dto.VisitorResponse{
		ID:        visitor.ID,
		Token:     visitor.Token,
		Username:  visitor.Username,
		Name:      visitor.Name,
		CreatedAt: visitor.CreatedAt,
	}
	for _, email := range visitor.Emails {
		resp.Emails = append(resp.Emails, email.Address)
	}
	for _, phone := range visitor.Phones {
		resp.Phones = append(resp.Phones, phone.PhoneNumber)
	}
	return resp
}
