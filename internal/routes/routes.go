package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/chatapp/internal/handlers"
	"github.com/yourorg/chatapp/internal/metrics"
	"github.com/yourorg/chatapp/internal/middleware"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Chats     *handlers.ChatHandler
	Messages  *handlers.MessageHandler
	Status    *handlers.StatusHandler
	Community *handlers.CommunityHandler
	Calls     *handlers.CallHandler
	Assistant *handlers.AssistantHandler
	WS        *handlers.WSHandler

	JWT       fiber.Handler
	RateLimit *middleware.RateLimiter
}

func Register(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/otp/request",
		d.RateLimit.ByKey(func(c *fiber.Ctx) string { return "otp:" + c.IP() }),
		d.Auth.RequestOTP)
	authGroup.Post("/otp/verify", d.Auth.VerifyOTP)

	users := api.Group("/users", d.JWT)
	users.Get("/me", d.Users.Me)
	users.Put("/me", d.Users.UpdateProfile)
	users.Get("/search", d.Users.Search)
	users.Get("/online", d.Users.Online)

	chats := api.Group("/chats", d.JWT)
	chats.Post("/direct", d.Chats.AccessDirect)
	chats.Post("/group", d.Chats.CreateGroup)
	chats.Get("/", d.Chats.List)
	chats.Get("/:chat_id", d.Chats.Get)
	chats.Put("/:chat_id/name", d.Chats.Rename)
	chats.Post("/:chat_id/members", d.Chats.AddMember)
	chats.Delete("/:chat_id/members/:user_id", d.Chats.RemoveMember)
	chats.Delete("/:chat_id", d.Chats.Delete)

	messages := api.Group("/messages", d.JWT)
	messages.Post("/send", d.Messages.Send)
	messages.Get("/:chat_id", d.Messages.History)
	messages.Delete("/:message_id", d.Messages.Delete)

	status := api.Group("/status", d.JWT)
	status.Post("/typing", d.Status.Typing)
	status.Post("/read", d.Status.MarkRead)

	communities := api.Group("/communities", d.JWT)
	communities.Post("/", d.Community.Create)
	communities.Get("/", d.Community.List)
	communities.Get("/:community_id", d.Community.Get)
	communities.Post("/:community_id/members", d.Community.AddMember)
	communities.Delete("/:community_id/members/:user_id", d.Community.RemoveMember)
	communities.Post("/:community_id/groups", d.Community.AddGroup)
	communities.Delete("/:community_id/groups/:chat_id", d.Community.RemoveGroup)

	calls := api.Group("/calls", d.JWT)
	calls.Post("/", d.Calls.Log)
	calls.Get("/", d.Calls.List)

	assistant := api.Group("/assistant", d.JWT,
		d.RateLimit.ByKey(func(c *fiber.Ctx) string { return "assistant:" + middleware.UserID(c) }))
	assistant.Post("/ask", d.Assistant.Ask)
	assistant.Get("/history", d.Assistant.History)

	app.Get("/ws", d.WS.Upgrade, websocket.New(d.WS.Serve, websocket.Config{
		HandshakeTimeout: 10 * time.Second,
	}))
}
