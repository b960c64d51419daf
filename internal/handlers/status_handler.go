package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/middleware"
	"github.com/yourorg/chatapp/internal/service"
)

type StatusHandler struct {
	svc *service.MessageService
}

func NewStatusHandler(svc *service.MessageService) *StatusHandler {
	return &StatusHandler{svc: svc}
}

// Typing relays a typing indicator to the other chat members.
func (h *StatusHandler) Typing(c *fiber.Ctx) error {
	var req struct {
		ChatID   string `json:"chat_id"`
		IsTyping bool   `json:"is_typing"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	if err := h.svc.Typing(c.Context(), middleware.UserID(c), req.ChatID, req.IsTyping); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "status updated"})
}

func (h *StatusHandler) MarkRead(c *fiber.Ctx) error {
	var req struct {
		ChatID     string   `json:"chat_id"`
		MessageIDs []string `json:"message_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	if err := h.svc.MarkRead(c.Context(), middleware.UserID(c), req.ChatID, req.MessageIDs); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "read status updated"})
}
