package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/middleware"
	"github.com/yourorg/chatapp/internal/service"
)

type AssistantHandler struct {
	svc *service.AssistantService
}

func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

func (h *AssistantHandler) Ask(c *fiber.Ctx) error {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	reply, err := h.svc.Ask(c.Context(), middleware.UserID(c), req.Prompt)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": reply})
}

func (h *AssistantHandler) History(c *fiber.Ctx) error {
	var before time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperr.Respond(c, apperr.ErrValidation)
		}
		before = t
	}
	msgs, err := h.svc.History(c.Context(), middleware.UserID(c), int64(c.QueryInt("limit", 50)), before)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}
