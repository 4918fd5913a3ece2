package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/job-portal/internal/api/http"
	"github.com/spec-kit/job-portal/internal/api/http/handlers"
	"github.com/spec-kit/job-portal/internal/auth"
	"github.com/spec-kit/job-portal/internal/config"
	"github.com/spec-kit/job-portal/internal/events"
	"github.com/spec-kit/job-portal/internal/observability"
	"github.com/spec-kit/job-portal/internal/persistence"
	"github.com/spec-kit/job-portal/internal/repository"
	"github.com/spec-kit/job-portal/internal/service"
	"github.com/spec-kit/job-portal/internal/storage"
	"github.com/spec-kit/job-portal/internal/upload"
	"github.com/spec-kit/job-portal/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	ledger, err := upload.NewRedisLedger(redis.Client, cfg.Redis.LedgerKey)
	if err != nil {
		logger.Fatal("failed to init staging ledger", zap.Error(err))
	}
	stager, err := upload.NewStager(cfg.Storage.StagingDir, ledger, logger.Named("staging"))
	if err != nil {
		logger.Fatal("failed to init staging area", zap.Error(err))
	}

	store, err := storage.NewCloudinaryStore(cfg.Cloudinary)
	if err != nil {
		logger.Fatal("failed to init object store", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	relocator := storage.NewRelocator(store, logger.Named("relocator"))
	relocator.OnRelocate(metrics.RecordRelocation)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger.Named("notify"), cfg.Notify), logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	accounts := service.NewAccountService(service.AccountDependencies{
		Users:      repository.NewUserRepository(pg.Pool),
		Tokens:     tokens,
		Relocator:  relocator,
		Dispatcher: dispatcher,
		Logger:     logger.Named("accounts"),
		BcryptCost: cfg.Auth.BcryptCost,
	})
	companies := service.NewCompanyService(repository.NewCompanyRepository(pg.Pool), relocator, dispatcher, logger.Named("companies"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Users:     handlers.NewUsersHandler(accounts, cfg.Auth.CookieName, tokens.TTL()),
		Companies: handlers.NewCompaniesHandler(companies),
		Identity:  auth.NewIdentityGate(tokens, cfg.Auth.CookieName),
		Stager:    stager,
	})

	sweeperDone := worker.StartStagingSweeper(ctx, stager, cfg.Storage.SweepInterval(), cfg.Storage.StaleAfter(), logger.Named("sweeper"))

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
	cancel()
	<-sweeperDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
