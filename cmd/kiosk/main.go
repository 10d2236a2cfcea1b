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

	httptransport "github.com/barberdesk/kiosk/internal/api/http"
	"github.com/barberdesk/kiosk/internal/api/http/handlers"
	"github.com/barberdesk/kiosk/internal/auth"
	"github.com/barberdesk/kiosk/internal/backend"
	"github.com/barberdesk/kiosk/internal/config"
	"github.com/barberdesk/kiosk/internal/events"
	"github.com/barberdesk/kiosk/internal/observability"
	"github.com/barberdesk/kiosk/internal/persistence"
	"github.com/barberdesk/kiosk/internal/service"
	"github.com/barberdesk/kiosk/internal/session"
	"github.com/barberdesk/kiosk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App, cfg.Session.KioskID)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	deps := map[string]handlers.Pinger{}

	var api backend.API
	switch cfg.Backend.Mode {
	case config.BackendModePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.Session.KioskID, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		api = backend.NewPostgresClient(pg.PoolHandle())
		deps["backend"] = pg
	default:
		rest := backend.NewRESTClient(cfg.Backend, logger)
		api = rest
		deps["backend"] = rest
	}

	var storage session.Storage = session.NewMemoryStorage()
	if cfg.Session.Storage == config.StorageRedis {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		storage = session.NewRedisStorage(redis.Client, cfg.Redis.KeyPrefix, cfg.Session.KioskID, cfg.Session.TTL())
		deps["redis"] = redis
	}
	sealKey, err := cfg.Session.SealKey()
	if err != nil {
		logger.Fatal("invalid session seal key", zap.Error(err))
	}
	storage = session.NewSealedStorage(storage, sealKey)

	store := session.NewStore(storage, events.NewInMemoryDispatcher(logger), logger)
	service.NewNotificationService(store, logger, metrics).RegisterHandlers()

	sessions := service.NewSessionService(service.SessionDependencies{
		API:     api,
		Store:   store,
		Revoker: worker.NewRevoker(api, cfg.Session.RevokeTimeout(), logger, metrics),
		Metrics: metrics,
		Logger:  logger,
	})
	guard := auth.NewGuard(store, sessions, logger)
	shopFloor := service.NewShopFloorService(api, guard)

	// The screen is only served once a stored session has been confirmed or dropped.
	validateCtx, cancelValidate := context.WithTimeout(ctx, cfg.Backend.Timeout())
	sessions.ValidateOnStartup(validateCtx)
	cancelValidate()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env != "development",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Session.KioskID, deps),
		Session:   handlers.NewSessionHandler(sessions),
		ShopFloor: handlers.NewShopFloorHandler(shopFloor),
		Store:     store,
		Metrics:   metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.Session.RevokeTimeout()+time.Second)
	defer cancelDrain()
	if err := sessions.Close(drainCtx); err != nil {
		logger.Warn("pending revocations abandoned", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
