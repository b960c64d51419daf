package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/middleware"
	"github.com/yourorg/chatapp/internal/service"
)

type MessageHandler struct {
	svc *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req struct {
		ChatID  string `json:"chat_id"`
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	msg, err := h.svc.Send(c.Context(), middleware.UserID(c), req.ChatID, req.Content, req.Type)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

func (h *MessageHandler) History(c *fiber.Ctx) error {
	var before time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperr.Respond(c, apperr.ErrValidation)
		}
		before = t
	}
	limit := int64(c.QueryInt("limit", 50))
	msgs, err := h.svc.History(c.Context(), middleware.UserID(c), c.Params("chat_id"), limit, before)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.UserID(c), c.Params("message_id")); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
