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

	httptransport "github.com/initiative-bkd/petition-service/internal/api/http"
	"github.com/initiative-bkd/petition-service/internal/api/http/handlers"
	"github.com/initiative-bkd/petition-service/internal/auth"
	"github.com/initiative-bkd/petition-service/internal/config"
	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/events"
	"github.com/initiative-bkd/petition-service/internal/geo"
	"github.com/initiative-bkd/petition-service/internal/lock"
	"github.com/initiative-bkd/petition-service/internal/observability"
	"github.com/initiative-bkd/petition-service/internal/persistence"
	"github.com/initiative-bkd/petition-service/internal/service"
	"github.com/initiative-bkd/petition-service/internal/thankyou"
	"github.com/initiative-bkd/petition-service/internal/validation"
	"github.com/initiative-bkd/petition-service/internal/worker"
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

	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	redisClient := redis.Handle()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(func(e events.Event, err error) {
		logger.Warn("event handler failed", zap.String("event_type", string(e.Type)), zap.Error(err))
	})

	var sink service.EventSink
	if cfg.Kafka.Brokers != "" {
		kafka, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Fatal("failed to create kafka publisher", zap.Error(err))
		}
		defer func() {
			flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer flushCancel()
			kafka.Close(flushCtx)
		}()
		sink = kafka
	}
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, sink))

	accessService := service.NewAccessService(*cfg, service.AccessDependencies{
		AdminRepo:   store.Admins,
		AccountRepo: store.Accounts,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	if n, err := accessService.SeedFallbackAccounts(ctx, cfg.Admin.BootstrapPassword); err != nil {
		logger.Fatal("failed to seed fallback admin accounts", zap.Error(err))
	} else if n > 0 {
		logger.Info("seeded fallback admin accounts", zap.Int("count", n))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	revocations := auth.NewRevocationList(redisClient)
	authService := service.NewAuthService(service.AuthDependencies{
		AccountRepo:  store.Accounts,
		Roles:        accessService,
		TokenManager: tokens,
		Revocations:  revocations,
		Logger:       logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), revocations, accessService)

	var textClient thankyou.TextGenerator
	if cfg.Features.AIThankYou && cfg.ThankYou.APIKey != "" {
		textClient = thankyou.NewGeminiClient(cfg.ThankYou.Endpoint, cfg.ThankYou.APIKey, cfg.ThankYou.Model)
	}
	thankYou := thankyou.NewGenerator(textClient, cfg.ThankYou.Timeout(), logger)
	thankYou.OnFallback = metrics.ThankYouFallback

	signatureService := service.NewSignatureService(service.SignatureDependencies{
		SignatureRepo: store.Signatures,
		Validator:     validation.New(nil),
		Locker:        lock.New(redisClient),
		LockTTL:       cfg.Submission.LockTTL(),
		ThankYou:      thankYou,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
		SiteURL:       cfg.Public.SiteURL,
		CountOffset:   cfg.Public.CountOffset,
	})

	geoClient := geo.NewClient(cfg.Geo.Endpoint)
	geoClient.HTTP.Timeout = cfg.Geo.Timeout()
	visitService := service.NewVisitService(service.VisitDependencies{
		VisitRepo: store.Visits,
		Geo:       geo.NewCachedResolver(geoClient, redisClient, cfg.Geo.CacheTTL(), logger),
		Metrics:   metrics,
		Logger:    logger,
		Enabled:   cfg.Features.VisitTracking,
		SiteURL:   cfg.Public.SiteURL,
		Timeout:   cfg.Geo.Timeout() + 2*time.Second,
	})

	consoleService := service.NewConsoleService(service.ConsoleDependencies{
		SignatureRepo: store.Signatures,
		VisitRepo:     store.Visits,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	worker.StartPurgeWorker(ctx, consoleService, cfg.Submission.PurgeInterval(), logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var redisPinger handlers.Pinger
	if redisClient != nil {
		redisPinger = redis
	}
	defaultLang := domain.ParseLanguage(cfg.Public.DefaultLanguage, domain.LanguageDE)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redisPinger),
		Public:         handlers.NewPublicHandler(signatureService, visitService, defaultLang),
		Auth:           handlers.NewAuthHandler(authService, defaultLang),
		Admin:          handlers.NewAdminHandler(consoleService, accessService),
		AuthMiddleware: authMiddleware,
		Store:          store,
		Metrics:        metrics,
		Logger:         logger,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.ShutdownWithTimeout(10 * time.Second)
	visitService.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
