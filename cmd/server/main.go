package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/yourorg/chatapp/internal/assistant"
	"github.com/yourorg/chatapp/internal/auth"
	"github.com/yourorg/chatapp/internal/cache"
	"github.com/yourorg/chatapp/internal/config"
	"github.com/yourorg/chatapp/internal/handlers"
	"github.com/yourorg/chatapp/internal/kafka"
	"github.com/yourorg/chatapp/internal/logger"
	"github.com/yourorg/chatapp/internal/middleware"
	"github.com/yourorg/chatapp/internal/repository"
	"github.com/yourorg/chatapp/internal/routes"
	"github.com/yourorg/chatapp/internal/service"
	"github.com/yourorg/chatapp/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zlog, err := logger.New(logger.Config{Development: cfg.Server.Development})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	mongoClient, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo connect failed", "error", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		zlog.Fatalw("index bootstrap failed", "error", err)
	}

	redisClient, err := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
	if err != nil {
		zlog.Fatalw("redis connect failed", "error", err)
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepo(db)
	chatRepo := repository.NewChatRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	communityRepo := repository.NewCommunityRepo(db)
	callRepo := repository.NewCallRepo(db)

	hub := ws.NewHub()
	dispatcher := ws.NewDispatcher(hub, chatRepo, zlog)

	var publisher service.Publisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
	}

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTTLHours)*time.Hour)
	authSvc := auth.NewService(userRepo, redisClient, &auth.LogSender{Log: zlog}, tokens, auth.Config{
		OTPTTL:          time.Duration(cfg.OTP.TTLMinutes) * time.Minute,
		OTPDigits:       cfg.OTP.Digits,
		PerPhonePerHour: int64(cfg.OTP.PerPhonePerHour),
	}, zlog)

	chatSvc := service.NewChatService(chatRepo, userRepo, zlog)
	messageSvc := service.NewMessageService(chatRepo, messageRepo, userRepo, dispatcher, publisher, zlog)
	communitySvc := service.NewCommunityService(communityRepo, chatRepo, userRepo, zlog)
	userSvc := service.NewUserService(userRepo, redisClient)
	callSvc := service.NewCallService(callRepo, userRepo)
	provider := assistant.NewHTTPClient(assistant.ClientConfig{
		BaseURL: cfg.Assistant.BaseURL,
		APIKey:  cfg.Assistant.APIKey,
		Timeout: time.Duration(cfg.Assistant.TimeoutSeconds) * time.Second,
	})
	assistantSvc := service.NewAssistantService(provider, messageRepo, zlog)

	wsOpts := ws.ClientOptions{
		PingInterval:  time.Duration(cfg.WS.PingIntervalSeconds) * time.Second,
		WriteDeadline: time.Duration(cfg.WS.WriteDeadlineSeconds) * time.Second,
		ReadDeadline:  time.Duration(cfg.WS.ReadDeadlineSeconds) * time.Second,
		MaxMsgSize:    cfg.WS.MaxMessageBytes,
		SendBuffer:    cfg.WS.SendBuffer,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(zlog))

	routes.Register(app, routes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc),
		Users:     handlers.NewUserHandler(userSvc),
		Chats:     handlers.NewChatHandler(chatSvc),
		Messages:  handlers.NewMessageHandler(messageSvc),
		Status:    handlers.NewStatusHandler(messageSvc),
		Community: handlers.NewCommunityHandler(communitySvc),
		Calls:     handlers.NewCallHandler(callSvc),
		Assistant: handlers.NewAssistantHandler(assistantSvc),
		WS:        handlers.NewWSHandler(hub, tokens, chatSvc, messageSvc, redisClient, wsOpts, zlog),
		JWT:       middleware.JWTAuth(tokens),
		RateLimit: middleware.NewRateLimiter(redisClient, 30, time.Minute),
	})

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zlog.Fatalw("server stopped", "error", err)
		}
	}()
	zlog.Infow("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Errorw("shutdown error", "error", err)
	}
}
