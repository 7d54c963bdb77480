package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/document-service/internal/api/http"
	"github.com/spec-kit/document-service/internal/api/http/handlers"
	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/config"
	"github.com/spec-kit/document-service/internal/events"
	"github.com/spec-kit/document-service/internal/observability"
	"github.com/spec-kit/document-service/internal/persistence"
	"github.com/spec-kit/document-service/internal/repository"
	"github.com/spec-kit/document-service/internal/service"
	"github.com/spec-kit/document-service/internal/storage"
	"github.com/spec-kit/document-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	objectClient, err := storage.NewObjectClient(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to build storage client", zap.Error(err))
	}
	gateway := storage.NewGateway(objectClient, cfg.Storage.Bucket)
	if err := gateway.EnsureBucket(ctx); err != nil {
		logger.Warn("storage bucket not ready", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authService := service.NewAuthService(*cfg, userRepo)
	documentService := service.NewDocumentService(service.DocumentDependencies{
		DocumentRepo: documentRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     userRepo,
		Gateway:      gateway,
		StatCache:    storage.NewStatCache(redis.Client, 5*time.Minute),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	categoryService := service.NewCategoryService(categoryRepo)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), logger)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		StreamRequestBody: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, gateway),
		Users:          handlers.NewUsersHandler(authService),
		Documents:      handlers.NewDocumentsHandler(documentService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
