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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Mactto/weight-daily-log-api/internal/config"
	"github.com/Mactto/weight-daily-log-api/internal/crypto"
	"github.com/Mactto/weight-daily-log-api/internal/handler"
	"github.com/Mactto/weight-daily-log-api/internal/lock"
	"github.com/Mactto/weight-daily-log-api/internal/logging"
	"github.com/Mactto/weight-daily-log-api/internal/middleware"
	"github.com/Mactto/weight-daily-log-api/internal/repository"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
	"github.com/Mactto/weight-daily-log-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envErr := godotenv.Load()
	cfg, cfgErr := config.Load()

	logger, err := logging.New(cfg.LogDebug, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Warn("no .env file found, using environment variables")
	}
	if cfgErr != nil {
		logger.Fatal("invalid configuration", zap.Error(cfgErr))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.NewDB(ctx, cfg.DatabaseURI, repository.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.DBMigrate {
		if err := repository.RunMigrations(ctx, db); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	factory := reqctx.NewFactory(db, cfg, logger)
	codec := crypto.NewTokenCodec(cfg.SecretKey, cfg.TokenIssuer, cfg.TokenTTL)
	resolver := middleware.NewAuthResolver(codec)

	authService := service.NewAuthService(crypto.NewHasher(0), codec)
	dailyLogService := service.NewDailyLogService(lock.NewLocker(cfg.AdvisoryLockTimeout))

	logoutEnabled := cfg.RedisURL != ""
	if logoutEnabled {
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		revocations := repository.NewRevocationStore(client)
		resolver.WithRevocations(revocations)
		authService.WithRevoker(revocations)
		logger.Info("token revocation enabled")
	}

	router := handler.NewRouter(handler.RouterOptions{
		Log:                logger,
		Boundary:           middleware.NewBoundary(factory),
		Resolver:           resolver,
		AllowCORSAllOrigin: cfg.AllowCORSAllOrigin,
		AuthRateLimit:      middleware.RateLimit(ctx, cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst),
		LogoutEnabled:      logoutEnabled,
	}, handler.Services{
		Auth:             authService,
		Account:          service.NewAccountService(),
		DailyLog:         dailyLogService,
		ExerciseCategory: service.NewExerciseCategoryService(),
		PerformanceLog:   service.NewPerformanceLogService(),
	})

	if cfg.DailyLogCron != "" {
		rollover := service.NewRolloverService(factory, dailyLogService, logger)
		if err := rollover.Start(cfg.DailyLogCron); err != nil {
			return err
		}
		defer func() { <-rollover.Stop().Done() }()
	}

	srv := &http.Server{
		Addr:              cfg.BindAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.BindAddress), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	logger.Info("server stopped", zap.Int("active_scopes", factory.Active()))
	return nil
}
