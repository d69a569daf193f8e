package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tridala-nutra/api/internal/handlers"
	"github.com/tridala-nutra/api/internal/platform/auth"
	"github.com/tridala-nutra/api/internal/platform/config"
	pfirestore "github.com/tridala-nutra/api/internal/platform/firestore"
	"github.com/tridala-nutra/api/internal/platform/jobs"
	"github.com/tridala-nutra/api/internal/platform/observability"
	firestoreRepo "github.com/tridala-nutra/api/internal/repositories/firestore"
	"github.com/tridala-nutra/api/internal/services"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("missing required configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	if _, err := firestoreProvider.Client(ctx); err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}
	defer func() {
		if err := firestoreProvider.Close(); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.Events.ProjectID)
	if err != nil {
		logger.Fatal("failed to initialise pubsub client", zap.Error(err))
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logger.Warn("pubsub close error", zap.Error(err))
		}
	}()

	statusTopic := pubsubClient.Topic(cfg.Events.OrderStatusTopic)
	defer statusTopic.Stop()

	eventPublisher, err := jobs.NewPubSubOrderEventPublisher(statusTopic)
	if err != nil {
		logger.Fatal("failed to initialise order event publisher", zap.Error(err))
	}

	orderRepo, err := firestoreRepo.NewOrderRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise order repository", zap.Error(err))
	}
	productRepo, err := firestoreRepo.NewProductRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise product repository", zap.Error(err))
	}
	categoryRepo, err := firestoreRepo.NewCategoryRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise category repository", zap.Error(err))
	}
	userRepo, err := firestoreRepo.NewUserRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise user repository", zap.Error(err))
	}

	tokenIssuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal("failed to initialise token issuer", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(tokenIssuer)

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Orders: orderRepo,
		Events: eventPublisher,
		Logger: func(ctx context.Context, event string, fields map[string]any) {
			zapFields := make([]zap.Field, 0, len(fields))
			for key, value := range fields {
				zapFields = append(zapFields, zap.Any(key, value))
			}
			observability.FromContext(ctx).Warn(event, zapFields...)
		},
	})
	if err != nil {
		logger.Fatal("failed to initialise order service", zap.Error(err))
	}

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Products:   productRepo,
		Categories: categoryRepo,
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}

	accountService, err := services.NewAccountService(services.AccountServiceDeps{
		Users:  userRepo,
		Tokens: tokenIssuer,
	})
	if err != nil {
		logger.Fatal("failed to initialise account service", zap.Error(err))
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthVersion(os.Getenv("API_VERSION")),
		handlers.WithHealthStartedAt(startedAt),
		handlers.WithReadinessCheck("firestore", func(ctx context.Context) error {
			_, err := firestoreProvider.Client(ctx)
			return err
		}),
		handlers.WithReadinessCheck("pubsub", func(ctx context.Context) error {
			_, err := statusTopic.Exists(ctx)
			return err
		}),
	)

	adminOrders := handlers.NewAdminOrderHandlers(orderService)
	adminCatalog := handlers.NewAdminCatalogHandlers(catalogService)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.TraceMiddleware(cfg.Firestore.ProjectID),
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(cfg.Firestore.ProjectID),
			observability.RecoveryMiddleware(logger),
		),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithCatalogRoutes(handlers.NewCatalogHandlers(catalogService).Routes),
		handlers.WithAccountRoutes(handlers.NewAccountHandlers(authenticator, accountService).Routes),
		handlers.WithAdminRoutes(func(admin chi.Router) {
			admin.Route("/orders", adminOrders.Routes)
			adminCatalog.Routes(admin)
		}),
		handlers.WithAdminMiddlewares(authenticator.RequireAdmin()),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Environment),
		)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			_ = server.Close()
		}
	}

	logger.Info("server stopped")
}
