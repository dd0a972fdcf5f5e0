package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"aichat_backend/database"
	"aichat_backend/internal/cache"
	"aichat_backend/internal/config"
	"aichat_backend/internal/email"
	"aichat_backend/internal/handlers"
	"aichat_backend/internal/logger"
	"aichat_backend/internal/queue"
	"aichat_backend/internal/repositories"
	"aichat_backend/internal/routes"
	"aichat_backend/internal/services"
	"aichat_backend/internal/storage"
	"aichat_backend/internal/validator"
	"aichat_backend/ws"
)

// Run собирает приложение и запускает HTTP сервер
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	router, cleanup, err := SetupRouter(db, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "addr", addr, "env", cfg.Server.Env)
	return router.Run(addr)
}

// SetupRouter строит граф зависимостей и возвращает готовый роутер.
// cleanup закрывает фоновые ресурсы (очередь, кэш, воркер).
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, func(), error) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Репозитории
	userRepo := repositories.NewUserRepository(db)
	conversationRepo := repositories.NewConversationRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	aiModelRepo := repositories.NewAIModelRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)

	// Хранилище файлов
	st, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	// Кэш и очередь работают только при настроенном Redis
	var modelCache cache.Cache
	var queueClient *queue.Client
	var worker *queue.Worker

	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("init redis cache: %w", err)
		}
		modelCache = redisCache

		queueClient, err = queue.NewClient(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("init queue client: %w", err)
		}
	}

	// Сервисы
	membershipService := services.NewMembershipService(db, conversationRepo, membershipRepo)
	messageService := services.NewMessageService(
		conversationRepo, messageRepo, membershipService, services.NewClassificationService())

	container := &services.ServiceContainer{
		AuthService:       services.NewAuthService(userRepo),
		MembershipService: membershipService,
		ConversationService: services.NewConversationService(
			db, conversationRepo, membershipRepo, membershipService, cfg.Conversations.DefaultMaxUsers),
		MessageService:  messageService,
		FavoriteService: services.NewFavoriteService(favoriteRepo, membershipService),
		ModelCatalogService: services.NewModelCatalogService(
			aiModelRepo, modelCache, time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second),
		UploadService: services.NewUploadService(uploadRepo, st),
	}

	// Уведомления о приглашениях по email
	if cfg.Email.SMTPHost != "" {
		sender := email.NewEmailSender(cfg)
		membershipService.SetNotifier(email.NewInviteNotifier(sender, userRepo))
	}

	// Realtime доставка
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run()
	messageService.SetBroadcaster(wsManager)
	wsHandler := ws.NewWebSocketHandler(wsManager)

	// Фоновые задачи ассистента
	if queueClient != nil {
		messageService.SetEnqueuer(queueClient)

		worker, err = queue.NewWorker(cfg.Redis.URL, conversationRepo, aiModelRepo, messageService)
		if err != nil {
			return nil, nil, fmt.Errorf("init worker: %w", err)
		}
		go func() {
			if err := worker.Run(); err != nil {
				logger.WithError(err).Error("worker stopped")
			}
		}()
	}

	// Хэндлеры
	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(base, container.AuthService),
		ConversationHandler: handlers.NewConversationHandler(base, container.ConversationService),
		MembershipHandler:   handlers.NewMembershipHandler(base, container.MembershipService),
		MessageHandler:      handlers.NewMessageHandler(base, container.MessageService),
		FavoriteHandler:     handlers.NewFavoriteHandler(base, container.FavoriteService),
		ModelHandler:        handlers.NewModelHandler(base, container.ModelCatalogService),
		UploadHandler:       handlers.NewUploadHandler(base, container.UploadService),
	}

	router := gin.Default()
	routes.RegisterRoutes(router, appHandlers, wsHandler)

	// Раздача локальных файлов
	if cfg.Storage.Type == "local" {
		router.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)
	}

	cleanup := func() {
		if worker != nil {
			worker.Shutdown()
		}
		if queueClient != nil {
			_ = queueClient.Close()
		}
		if modelCache != nil {
			_ = modelCache.Close()
		}
	}

	return router, cleanup, nil
}
