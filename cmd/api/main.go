package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"

	_ "github.com/redmonkez12/pheafer-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/pheafer-api/internal/auth"
	"github.com/redmonkez12/pheafer-api/internal/config"
	"github.com/redmonkez12/pheafer-api/internal/database"
	httpServer "github.com/redmonkez12/pheafer-api/internal/http"
	"github.com/redmonkez12/pheafer-api/internal/listing"
	"github.com/redmonkez12/pheafer-api/internal/logging"
	"github.com/redmonkez12/pheafer-api/internal/ratelimit"
	"github.com/redmonkez12/pheafer-api/internal/user"
)

// @title           Pheafer Listings API
// @version         1.0
// @description     Industrial real-estate listing directory with bearer-token authentication.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	policy, err := listing.ParsePolicy(cfg.Listings.MutationPolicy)
	if err != nil {
		return fmt.Errorf("invalid LISTING_MUTATION_POLICY: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"storage", cfg.Database.Driver,
		"token_format", cfg.Auth.TokenFormat,
		"mutation_policy", policy,
	)

	ctx := context.Background()

	// Initialize storage
	userStore, listingStore, closeStorage, err := initStorage(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage()

	// Initialize rate limiter
	rateLimiter, closeLimiter, err := initRateLimiter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	defer closeLimiter()

	// Initialize token service
	tokenService, err := initTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize services
	authService, err := auth.NewService(
		userStore,
		tokenService,
		logger,
		cfg.Auth.TokenDuration,
		cfg.Auth.BcryptCost,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}
	listingService := listing.NewService(
		listingStore,
		userStore,
		listing.NewGate(policy),
		logger,
	)

	// Initialize HTTP handlers
	handlers := httpServer.Handlers{
		Auth:     auth.NewHandler(authService, rateLimiter),
		Listings: listing.NewHandler(listingService),
	}
	authMiddleware := auth.NewMiddleware(authService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize router
	router := httpServer.NewRouter(cfg, handlers, authMiddleware, registry, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initStorage opens Postgres and migrates it, or returns in-memory stores when
// DB_DRIVER=memory.
func initStorage(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) (user.Store, listing.Store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return user.NewMemoryStore(), listing.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Open(cfg.ConnectionString(), cfg.MaxOpenConns, cfg.MaxIdleConns)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}

	return user.NewRepository(db), listing.NewRepository(db), closeDB(db, logger), nil
}

func closeDB(db *bun.DB, logger *logging.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
}

// initRateLimiter uses Redis when REDIS_HOST is set and a process-local
// limiter otherwise
func initRateLimiter(ctx context.Context, cfg *config.Config, logger *logging.Logger) (auth.RateLimiter, func(), error) {
	if !cfg.Redis.Enabled() {
		logger.Info("REDIS_HOST not set, using in-memory rate limiter")
		limiter := ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
		return limiter, limiter.Close, nil
	}

	client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window), closeFn, nil
}

func initTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.TokenFormat == config.TokenFormatJWT {
		svc, err := auth.NewJWTService(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	svc, err := auth.NewPasetoService(cfg.PasetoKey)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
