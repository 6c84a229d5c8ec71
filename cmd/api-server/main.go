package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"libraryhub/database"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/events"
	"libraryhub/internal/library"
	"libraryhub/internal/logging"
	"libraryhub/internal/metrics"
	"libraryhub/internal/microservices/http-api/handler"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"
	"libraryhub/internal/tracing"
)

const (
	shutdownTimeout  = 10 * time.Second
	housekeepingTick = time.Minute
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Setup structured logging
	logger := logging.New(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server_error", "error", err)
		os.Exit(1)
	}
	logger.Info("server_stopped_gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracing, err := tracing.InitTracerProvider(cfg.JaegerEndpoint, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// Connect to the database
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	gdb, err := database.OpenGorm(pool, cfg.IsDevelopment() && cfg.LogLevel == "debug")
	if err != nil {
		return err
	}
	if err := database.Migrate(gdb, logger); err != nil {
		return err
	}

	rdb, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	publisher := events.NewPublisher(cfg, logger)
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(gdb)
	refreshRepo := repository.NewRefreshTokenRepository(gdb)
	bookRepo := repository.NewBookRepository(gdb)
	readerRepo := repository.NewReaderRepository(gdb)
	loanRepo := repository.NewLoanRepository(gdb)
	discrepancyRepo := repository.NewDiscrepancyRepository(gdb)

	// Workflow
	opts := []library.Option{
		library.WithLogger(logger),
		library.WithDiscrepancyRecorder(discrepancyRepo),
		library.WithEventPublisher(publisher),
		library.WithTracer(otel.Tracer("libraryhub/internal/library")),
	}
	if cfg.AtomicLoanWrites {
		opts = append(opts, library.WithTransactor(repository.NewTransactor(gdb)))
	}
	var m *metrics.Metrics
	if cfg.PrometheusEnabled {
		m = metrics.New()
		opts = append(opts, library.WithObserver(m))
	}
	workflow := library.NewWorkflow(loanRepo, loanRepo, cfg.ReaderMaxItems, opts...)
	logger.Info("loan workflow ready", "max_items", workflow.MaxItems(), "atomic", cfg.AtomicLoanWrites)

	// Services
	authService := service.NewAuthService(userRepo, refreshRepo, cfg)
	if cfg.AdminEmail != "" {
		admin, err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		logger.Info("bootstrap admin ready", "user_id", admin.ID)
	}
	bookService := service.NewBookService(bookRepo, logger)
	holdingsCache := cache.NewHoldingsCache(rdb, time.Duration(cfg.CacheTTL)*time.Second, logger)
	readerService := service.NewReaderService(readerRepo, holdingsCache, logger)
	loanService := service.NewLoanService(bookRepo, readerRepo, loanRepo, workflow, holdingsCache, logger)
	reconciliationService := service.NewReconciliationService(discrepancyRepo, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	bookHandler := handler.NewBookHandler(bookService, logger)
	readerHandler := handler.NewReaderHandler(readerService, logger)
	libraryHandler := handler.NewLibraryHandler(loanService, logger)
	adminHandler := handler.NewAdminHandler(reconciliationService, authService, logger)

	// Setup Gin
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.GET("/check-conn", handler.CheckConn(pool))

	api := r.Group("/api/v1", middleware.RateLimit(limiter), middleware.RequestTimeout(cfg.RequestTimeout))
	authHandler.RegisterRoutes(api.Group("/auth"))
	bookHandler.RegisterPublicRoutes(api.Group("/books"))

	protected := api.Group("", middleware.AuthMiddleware(authService))
	bookHandler.RegisterRoutes(protected.Group("/books"))
	readerHandler.RegisterRoutes(protected.Group("/readers"))
	libraryHandler.RegisterRoutes(protected.Group("/library"))
	adminHandler.RegisterRoutes(protected.Group("/admin"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting_http_server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("received_shutdown_signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		housekeeping(gctx, limiter, refreshRepo, logger)
		return nil
	})
	return g.Wait()
}

// housekeeping forgets idle rate-limit buckets and purges expired refresh
// tokens until ctx is done.
func housekeeping(ctx context.Context, limiter *middleware.IPRateLimiter, tokens repository.RefreshTokenRepository, logger *slog.Logger) {
	ticker := time.NewTicker(housekeepingTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := limiter.Sweep(); n > 0 {
				logger.Debug("rate limiter swept", "clients", n)
			}
			n, err := tokens.DeleteExpired(ctx, now.UTC())
			if err != nil {
				logger.Warn("refresh token purge failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("expired refresh tokens purged", "count", n)
			}
		}
	}
}
