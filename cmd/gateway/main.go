package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pharmstock-gateway/internal/api/http"
	"github.com/spec-kit/pharmstock-gateway/internal/api/http/handlers"
	"github.com/spec-kit/pharmstock-gateway/internal/auth"
	"github.com/spec-kit/pharmstock-gateway/internal/config"
	"github.com/spec-kit/pharmstock-gateway/internal/events"
	"github.com/spec-kit/pharmstock-gateway/internal/observability"
	"github.com/spec-kit/pharmstock-gateway/internal/persistence"
	"github.com/spec-kit/pharmstock-gateway/internal/service"
	"github.com/spec-kit/pharmstock-gateway/internal/session"
	"github.com/spec-kit/pharmstock-gateway/internal/upstream"
	"github.com/spec-kit/pharmstock-gateway/internal/worker"
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

	metrics := observability.NewMetrics()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store := session.NewRedisStore(redis.Client, cfg.Session.CredentialTTL(), cfg.Session.IdentityTTL())
	sessions := session.NewManager(store, logger)

	dispatcher := events.NewInMemoryDispatcher()

	client := upstream.NewClient(cfg.Upstream, logger)
	refresher := session.NewRefresher(sessions, client.RefreshToken, dispatcher, metrics, logger)
	client.UseCredentials(refresher)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(client, sessions, refresher, logger)
	reservationService := service.NewReservationService(client, dispatcher, logger)
	stockService := service.NewStockService(client, dispatcher, logger)
	directoryService := service.NewDirectoryService(client, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	sessionMiddleware := auth.NewSessionMiddleware(sessions, cfg.Session.CookieName)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Auth:         handlers.NewAuthHandler(authService, cfg.Session),
		Reservations: handlers.NewReservationsHandler(reservationService),
		Stock:        handlers.NewStockHandler(stockService),
		Directory:    handlers.NewDirectoryHandler(directoryService),
		Session:      sessionMiddleware,
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
