package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/aungmyo/shwebook/internal/adapter/http"
	"github.com/aungmyo/shwebook/internal/adapter/http/handler"
	"github.com/aungmyo/shwebook/internal/adapter/repository/localfile"
	redisRepo "github.com/aungmyo/shwebook/internal/adapter/repository/redis"
	"github.com/aungmyo/shwebook/internal/adapter/repository/redisdoc"
	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/infrastructure/auth"
	"github.com/aungmyo/shwebook/internal/infrastructure/config"
	"github.com/aungmyo/shwebook/internal/infrastructure/logger"
	"github.com/aungmyo/shwebook/internal/infrastructure/redis"
	"github.com/aungmyo/shwebook/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	local, err := localfile.New(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open local store")
	}

	var tokens *auth.JWTManager
	if cfg.JWTSecret != "" {
		tokens = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// The remote side is optional. Without REDIS_URL the service runs
	// guest-only and sign-in returns an error.
	var remoteFactory usecase.RemoteFactory
	var idempotencyStore usecase.IdempotencyStore
	var healthHandler *handler.HealthHandler

	if cfg.RemoteConfigured() {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		remoteFactory = func(ctx context.Context, profile *domain.UserProfile) (usecase.RemoteBackend, error) {
			return redisdoc.New(redisClient, profile.ID, cfg.RemoteOpTimeout, log), nil
		}
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		healthHandler = handler.NewHealthHandler(redisClient)
	} else {
		log.Info().Msg("no remote store configured, running guest-only")
		healthHandler = handler.NewHealthHandler(nil)
	}

	session := usecase.NewSession(local, local, remoteFactory, log)
	if err := session.Start(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to start session")
	}
	defer session.Close()

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Logger:             log,
		SessionHandler:     handler.NewSessionHandler(session, tokens),
		TransactionHandler: handler.NewTransactionHandler(session),
		SettingsHandler:    handler.NewSettingsHandler(session),
		AnalyticsHandler:   handler.NewAnalyticsHandler(session),
		BackupHandler:      handler.NewBackupHandler(session),
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}
