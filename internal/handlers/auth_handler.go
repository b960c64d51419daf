package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/auth"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	if err := h.svc.RequestOTP(c.Context(), req.Phone); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "otp sent"})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	token, user, err := h.svc.VerifyOTP(c.Context(), req.Phone, req.Code)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}
