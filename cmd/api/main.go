package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"hashchat/internal/adapter/api"
	"hashchat/internal/adapter/api/handler"
	apimiddleware "hashchat/internal/adapter/api/middleware"
	"hashchat/internal/adapter/api/router"
	"hashchat/internal/adapter/repository"
	"hashchat/internal/infrastructure/auth"
	"hashchat/internal/infrastructure/events"
	ws "hashchat/internal/infrastructure/websocket"
	"hashchat/internal/usecase"
	"hashchat/pkg/config"
	"hashchat/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zapLogger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := mongoClient.Ping(connectCtx, readpref.Primary()); err != nil {
		zapLogger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.MongoDatabase)

	conversationRepo := repository.NewMongoConversationRepository(db)
	hashtagRepo := repository.NewMongoHashtagRepository(db)
	userRepo := repository.NewMongoUserRepository(db)

	authService := auth.NewJWTAuthService(cfg.JWTSecret)

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		zapLogger.Info("kafka publisher enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	} else {
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	chatUseCase := usecase.NewChatUseCase(conversationRepo, hashtagRepo, userRepo, publisher, zapLogger)
	hashtagUseCase := usecase.NewHashtagUseCase(hashtagRepo)

	wsManager := ws.NewManager(chatUseCase, zapLogger)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authService)

	chatHandler := handler.NewChatHandler(chatUseCase, hashtagUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, authService, zapLogger)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	router.SetupChatRouter(e, chatHandler, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	zapLogger.Info("starting server", zap.String("port", cfg.ServerPort))
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
