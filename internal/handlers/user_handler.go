package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/middleware"
	"github.com/yourorg/chatapp/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.svc.Get(c.Context(), middleware.UserID(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var upd service.ProfileUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	user, err := h.svc.UpdateProfile(c.Context(), middleware.UserID(c), upd)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	users, err := h.svc.Search(c.Context(), c.Query("q"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) Online(c *fiber.Ctx) error {
	ids, err := h.svc.OnlineUsers(c.Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"user_ids": ids})
}
