package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"wellness-chat/internal/chat"
	"wellness-chat/internal/config"
	"wellness-chat/internal/db"
	"wellness-chat/internal/handlers"
	"wellness-chat/internal/jobs"
	"wellness-chat/internal/logging"
	"wellness-chat/internal/middleware"
	"wellness-chat/internal/observability"
	"wellness-chat/internal/push"
	"wellness-chat/internal/rabbitmq"
	"wellness-chat/internal/repositories"
	"wellness-chat/internal/telemetry"
	"wellness-chat/internal/ws"
)

const serviceName = "wellness-chat"

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Debug)
	defer logger.Sync()

	ctx := context.Background()

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logger.Fatalw("failed to connect to db", "error", err)
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatalw("failed to init tracing", "error", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warnw("tracer shutdown failed", "error", err)
		}
	}()

	if eventPublisher, err := observability.NewEventPublisher(cfg.AMQPURL, cfg.EventExchange); err != nil {
		logger.Infow("event publishing disabled", "reason", err)
	} else {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	}

	auditPublisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange, logger)
	defer auditPublisher.Close()
	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, "audit.chat", serviceName, cfg.Environment, logger)

	roomRepo := repositories.NewRoomRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	userRepo := repositories.NewUserRepo(database)
	productRepo := repositories.NewProductRepo(database)
	officeRepo := repositories.NewOfficeRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)

	dispatcher := push.NewDispatcher(ctx, cfg.FCMCredentialsFile, logger)
	roomService := chat.NewRoomService(roomRepo, userRepo, logger)

	hub := ws.NewHub(logger)
	wsRouter := ws.NewRouter(hub, roomRepo, messageRepo, userRepo, productRepo, officeRepo, notificationRepo, roomService, dispatcher, logger)
	chatWS := ws.NewChatWebSocketHandler(hub, wsRouter, roomRepo, userRepo, logger)

	chatHandler := handlers.NewChatHandler(roomRepo, messageRepo, userRepo, roomService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api/v1/chat")
	api.POST("/rooms", authMiddleware, chatHandler.CreateRoom)
	api.GET("/rooms", authMiddleware, chatHandler.ListRooms)
	api.GET("/rooms/me", authMiddleware, chatHandler.GetMyRoom)
	api.GET("/rooms/:room_id", authMiddleware, chatHandler.GetRoom)

	router.GET("/ws/chat/:room_id/:user_id", chatWS.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, auditEmitter, cfg.Debug)

	scheduler := cron.New()
	idleFor := time.Duration(cfg.RoomIdleDays) * 24 * time.Hour
	if err := jobs.ScheduleRoomCleanup(scheduler, roomRepo, idleFor, logger); err != nil {
		logger.Fatalw("failed to schedule room cleanup", "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Infow("starting server", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalw("server error", "error", err)
	}
}
