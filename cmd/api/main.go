package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/hearth-storefront/api/controllers"
	"github.com/angelmondragon/hearth-storefront/api/routes"
	"github.com/angelmondragon/hearth-storefront/internal/account"
	"github.com/angelmondragon/hearth-storefront/internal/admin"
	"github.com/angelmondragon/hearth-storefront/internal/auth"
	"github.com/angelmondragon/hearth-storefront/internal/catalog"
	"github.com/angelmondragon/hearth-storefront/internal/chat"
	"github.com/angelmondragon/hearth-storefront/internal/checkout"
	"github.com/angelmondragon/hearth-storefront/internal/contact"
	"github.com/angelmondragon/hearth-storefront/internal/cron"
	"github.com/angelmondragon/hearth-storefront/internal/workspace"
	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	"github.com/angelmondragon/hearth-storefront/pkg/chatbot"
	"github.com/angelmondragon/hearth-storefront/pkg/config"
	"github.com/angelmondragon/hearth-storefront/pkg/db"
	"github.com/angelmondragon/hearth-storefront/pkg/instance"
	"github.com/angelmondragon/hearth-storefront/pkg/localstore"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/metrics"
	"github.com/angelmondragon/hearth-storefront/pkg/migrate"
	"github.com/angelmondragon/hearth-storefront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Environment: cfg.App.Env,
		Instance:    instance.ID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Checkout.LoadLocation()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	backendMetrics := metrics.NewBackendMetrics(reg)
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)
	jobMetrics := metrics.NewJobMetrics(reg)

	checks := map[string]controllers.Pinger{}
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)
		checks["redis"] = redisClient
	}

	cronRegistry := cron.NewRegistry()
	var storage localstore.Store
	switch cfg.State.Driver {
	case config.StateDriverRedis:
		storage = localstore.NewRedis(redisClient, cfg.State.TTL)
	case config.StateDriverSQL:
		if cfg.FeatureFlags.UseSQLite {
			cfg.DB.Driver = db.DriverSQLite
		}
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return err
		}
		closers = append(closers, dbClient.Close)
		checks["db"] = dbClient
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return err
		}
		sqlStore := localstore.NewSQL(dbClient.DB(), cfg.State.TTL)
		purge, err := cron.NewStatePurgeJob(sqlStore)
		if err != nil {
			return err
		}
		cronRegistry.Register(purge)
		storage = sqlStore
	default:
		logg.Warn(ctx, "browser state kept in memory; carts are lost on restart")
		storage = localstore.NewMemory()
	}

	backendClient, err := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithMetrics(backendMetrics),
	)
	if err != nil {
		return err
	}

	catalogStores, err := catalog.NewStores(backendClient, logg)
	if err != nil {
		return err
	}
	guard, err := auth.NewGuard(storage, backendClient, logg)
	if err != nil {
		return err
	}
	accountService, err := account.NewService(backendClient, cfg.Account.VerifyRedirectDelay, logg)
	if err != nil {
		return err
	}
	contactService, err := contact.NewService(backendClient, logg)
	if err != nil {
		return err
	}
	adminService, err := admin.NewService(backendClient, logg)
	if err != nil {
		return err
	}

	var chatService controllers.ChatService
	if cfg.Backend.ChatbotURL != "" {
		chatbotClient, err := chatbot.NewClient(cfg.Backend.ChatbotURL, chatbot.WithMetrics(backendMetrics))
		if err != nil {
			return err
		}
		svc, err := chat.NewService(chatbotClient, cfg.Backend.WhatsAppNumber, logg)
		if err != nil {
			return err
		}
		chatService = svc
	} else {
		logg.Warn(ctx, "chatbot url not set; chat endpoints disabled")
	}

	spaces, err := workspace.NewManager(workspace.ManagerParams{
		Storage:  storage,
		Bookings: backendClient,
		Checkout: checkout.Options{
			Location:      loc,
			SubmitTimeout: cfg.Checkout.SubmitTimeout,
			SuccessDelay:  cfg.Checkout.SuccessDelay,
			Metrics:       checkoutMetrics,
			Logger:        logg,
		},
		IdleTTL: cfg.Workspace.IdleTTL,
		Logger:  logg,
	})
	if err != nil {
		return err
	}
	defer spaces.Close()

	sweep, err := cron.NewWorkspaceSweepJob(spaces)
	if err != nil {
		return err
	}
	cronRegistry.Register(sweep)

	cronParams := cron.ServiceParams{
		Logger:   logg,
		Registry: cronRegistry,
		Metrics:  jobMetrics,
		Interval: cfg.Workspace.SweepInterval,
	}
	var limiter routes.RateLimiter
	if redisClient != nil {
		limiter = redisClient
		lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("housekeeping"), 0)
		if err != nil {
			return err
		}
		cronParams.Lock = lock
	}
	housekeeping, err := cron.NewService(cronParams)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"addr":         addr,
		"state_driver": cfg.State.Driver,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			Location:   loc,
			Checks:     checks,
			Limiter:    limiter,
			Gatherer:   reg,
			Rooms:      catalogStores.Rooms,
			Room:       catalogStores.Room,
			Gallery:    catalogStores.Gallery,
			Workspaces: spaces,
			Auth:       guard,
			Account:    accountService,
			Contact:    contactService,
			Chat:       chatService,
			Admin:      adminService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := housekeeping.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "housekeeping stopped unexpectedly", err)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(ctx, "api server shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
