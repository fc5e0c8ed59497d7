package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"houseshow-backend/config"
	"houseshow-backend/controllers"
	"houseshow-backend/middleware"
	"houseshow-backend/notifications"
	"houseshow-backend/routes"
	"houseshow-backend/services"
	"houseshow-backend/stores"
	"houseshow-backend/utils"
)

type storage struct {
	bookings   services.BookingStore
	users      services.UserStore
	pushTokens services.PushTokenStore
	ping       controllers.Pinger
}

func openStorage(cfg *config.Config, logger *zap.SugaredLogger) (*storage, func(), error) {
	if cfg.StorageDriver == "memory" {
		logger.Warnw("using in-memory storage, data is lost on restart")
		return &storage{
			bookings:   stores.NewMemoryBookingStore(),
			users:      stores.NewMemoryUserStore(),
			pushTokens: stores.NewMemoryPushTokenStore(),
		}, func() {}, nil
	}

	db, err := config.ConnectDatabase(cfg.DB, logger)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return &storage{
		bookings:   stores.NewGormBookingStore(db),
		users:      stores.NewGormUserStore(db),
		pushTokens: stores.NewGormPushTokenStore(db),
		ping:       sqlDB.PingContext,
	}, func() { _ = sqlDB.Close() }, nil
}

func main() {
	cfg, warnings, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	for _, w := range warnings {
		logger.Warn(w)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	store, closeStore, err := openStorage(cfg, logger)
	if err != nil {
		logger.Fatalw("database connect failed", "error", err)
	}
	defer closeStore()

	if cfg.SeedDemoUsers {
		if err := config.SeedDemoUsers(context.Background(), store.users, logger); err != nil {
			logger.Fatalw("seed demo users failed", "error", err)
		}
	}

	// notifications
	dispatcher := notifications.NewDispatcher(cfg.NotifyQueueSize, logger,
		notifications.NewLogSink(logger),
		notifications.NewMailSink(notifications.MailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			FromName: cfg.SMTP.FromName,
		}, store.users, logger),
		notifications.NewPushSink(notifications.NewExpoClient(cfg.ExpoAccessToken), store.pushTokens),
	)

	// services
	jwtAuth := utils.NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	bookingService := services.NewBookingService(store.bookings, dispatcher, logger,
		services.WithConfirmationWindow(cfg.ConfirmationWindow),
		services.WithUserDirectory(store.users),
	)
	authService := services.NewAuthService(store.users, jwtAuth, logger)
	pushTokenService := services.NewPushTokenService(store.pushTokens)
	sweeper := services.NewCompletionSweeper(bookingService, store.bookings, cfg.CompletionSweepInterval, logger)

	var limiter *middleware.FixedWindowRateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewFixedWindowLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	router := routes.SetupRouter(routes.Deps{
		Bookings:    controllers.NewBookingController(bookingService),
		Auth:        controllers.NewAuthController(authService),
		PushTokens:  controllers.NewPushTokenController(pushTokenService),
		Health:      store.ping,
		JWT:         jwtAuth,
		RateLimiter: limiter,
		CORSOrigins: cfg.CORSOrigins,
		Log:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// stopped only after srv.Shutdown returns
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	go dispatcher.Run(dispatchCtx)
	go sweeper.Run(ctx)

	go func() {
		logger.Infow("server starting", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutdown signal received, shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("server forced to shutdown", "error", err)
	}
	stopDispatch()

	select {
	case <-dispatcher.Done():
	case <-shutdownCtx.Done():
		logger.Warnw("pending notifications were not flushed before shutdown")
	}
	logger.Infow("server stopped gracefully")
}
