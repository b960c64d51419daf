package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/middleware"
	"github.com/yourorg/chatapp/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// AccessDirect opens (or returns) the 1:1 chat with another user.
func (h *ChatHandler) AccessDirect(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	chat, err := h.svc.AccessDirect(c.Context(), middleware.UserID(c), req.UserID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"chat": chat})
}

func (h *ChatHandler) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Name      string   `json:"name"`
		MemberIDs []string `json:"member_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	chat, err := h.svc.CreateGroup(c.Context(), middleware.UserID(c), req.Name, req.MemberIDs)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"chat": chat})
}

func (h *ChatHandler) List(c *fiber.Ctx) error {
	chats, err := h.svc.ListForUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"chats": chats})
}

func (h *ChatHandler) Get(c *fiber.Ctx) error {
	chat, err := h.svc.Get(c.Context(), middleware.UserID(c), c.Params("chat_id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"chat": chat})
}

func (h *ChatHandler) Rename(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	if err := h.svc.Rename(c.Context(), middleware.UserID(c), c.Params("chat_id"), req.Name); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "renamed"})
}

func (h *ChatHandler) AddMember(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.ErrValidation)
	}
	if err := h.svc.AddMember(c.Context(), middleware.UserID(c), c.Params("chat_id"), req.UserID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "member added"})
}

func (h *ChatHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.svc.RemoveMember(c.Context(), middleware.UserID(c), c.Params("chat_id"), c.Params("user_id")); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "member removed"})
}

func (h *ChatHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.UserID(c), c.Params("chat_id")); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "chat deleted"})
}
