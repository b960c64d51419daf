package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/middleware"
	"github.com/yourorg/chatapp/internal/service"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func (h *CommunityHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	cm, err := h.svc.Create(c.Context(), middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"community": cm})
}

func (h *CommunityHandler) List(c *fiber.Ctx) error {
	communities, err := h.svc.ListForUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"communities": communities})
}

func (h *CommunityHandler) Get(c *fiber.Ctx) error {
	cm, err := h.svc.Get(c.Context(), middleware.UserID(c), c.Params("community_id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"community": cm})
}

func (h *CommunityHandler) AddMember(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	if err := h.svc.AddMember(c.Context(), middleware.UserID(c), c.Params("community_id"), req.UserID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "member added"})
}

func (h *CommunityHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.svc.RemoveMember(c.Context(), middleware.UserID(c), c.Params("community_id"), c.Params("user_id")); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "member removed"})
}

func (h *CommunityHandler) AddGroup(c *fiber.Ctx) error {
	var req struct {
		ChatID string `json:"chat_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	if err := h.svc.AddGroup(c.Context(), middleware.UserID(c), c.Params("community_id"), req.ChatID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "group linked"})
}

func (h *CommunityHandler) RemoveGroup(c *fiber.Ctx) error {
	if err := h.svc.RemoveGroup(c.Context(), middleware.UserID(c), c.Params("community_id"), c.Params("chat_id")); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "group unlinked"})
}
