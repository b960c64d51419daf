package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/middleware"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/service"
)

type CallHandler struct {
	svc *service.CallService
}

func NewCallHandler(svc *service.CallService) *CallHandler {
	return &CallHandler{svc: svc}
}

func (h *CallHandler) Log(c *fiber.Ctx) error {
	var req struct {
		ReceiverID      string `json:"receiver_id"`
		Type            string `json:"type"`
		Outcome         string `json:"outcome"`
		DurationSeconds int    `json:"duration_seconds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	call, err := h.svc.Log(c.Context(), middleware.UserID(c), &models.Call{
		ReceiverID:      req.ReceiverID,
		Type:            req.Type,
		Outcome:         req.Outcome,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": call})
}

func (h *CallHandler) List(c *fiber.Ctx) error {
	calls, err := h.svc.ListForUser(c.Context(), middleware.UserID(c), int64(c.QueryInt("limit", 50)))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"calls": calls})
}
