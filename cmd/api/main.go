package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/inucxhu/soporte360/internal/api/http"
	"github.com/inucxhu/soporte360/internal/api/http/handlers"
	"github.com/inucxhu/soporte360/internal/auth"
	"github.com/inucxhu/soporte360/internal/classify"
	"github.com/inucxhu/soporte360/internal/config"
	"github.com/inucxhu/soporte360/internal/dashboard"
	"github.com/inucxhu/soporte360/internal/events"
	"github.com/inucxhu/soporte360/internal/hub"
	"github.com/inucxhu/soporte360/internal/lifecycle"
	"github.com/inucxhu/soporte360/internal/notifier"
	"github.com/inucxhu/soporte360/internal/observability"
	"github.com/inucxhu/soporte360/internal/persistence"
	"github.com/inucxhu/soporte360/internal/repository"
	"github.com/inucxhu/soporte360/internal/sched"
	"github.com/inucxhu/soporte360/internal/store"
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

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	metrics := observability.NewMetrics()
	scheduler := sched.New(sched.NewClock())
	defer scheduler.StopAll()

	notificationHub := hub.New(scheduler, logger)
	alerts := notifier.New(notificationHub, scheduler, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	alerts.RegisterHandlers(dispatcher)

	ticketCache := store.New()

	var classifier classify.Classifier
	if cfg.Classifier.Endpoint != "" {
		classifier = classify.NewHTTPClassifier(cfg.Classifier.Endpoint, cfg.Classifier.Timeout(), logger)
	} else {
		classifier = classify.NewHeuristic()
	}

	machine := lifecycle.New(lifecycle.Dependencies{
		Backend:    ticketRepo,
		Cache:      ticketCache,
		Dispatcher: dispatcher,
		Classifier: classifier,
		Clock:      scheduler.Clock(),
		Logger:     logger,
	})

	aggregator := dashboard.New(ticketCache, notificationHub, metrics, logger)

	poller := store.NewPoller(ticketCache, ticketRepo, cfg.Poll.Interval(), logger)
	go poller.Run(ctx)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	identity := auth.NewIdentityService(userRepo, tokens, auth.NewRedisRevocationStore(redis.Client), cfg.Auth.BcryptCost, logger)
	authMiddleware := auth.NewMiddleware(identity)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, alerts, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.Check{Name: "postgres", Probe: pg},
			handlers.Check{Name: "redis", Probe: redis}),
		Auth:           handlers.NewAuthHandler(identity),
		Tickets:        handlers.NewTicketsHandler(machine, ticketCache),
		Notifications:  handlers.NewNotificationsHandler(notificationHub),
		Dashboard:      handlers.NewDashboardHandler(aggregator),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	scheduler.StopAll()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
