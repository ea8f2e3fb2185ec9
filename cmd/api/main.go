package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpadp "bank-loan-service/internal/adapter/http"
	"bank-loan-service/internal/adapter/middleware"
	"bank-loan-service/internal/adapter/repository/memory"
	"bank-loan-service/internal/adapter/repository/sqlite"
	"bank-loan-service/internal/config"
	loanDomain "bank-loan-service/internal/domain/loan"
	"bank-loan-service/internal/infrastructure/cache"
	"bank-loan-service/internal/infrastructure/db"
	"bank-loan-service/internal/infrastructure/logger"
	"bank-loan-service/internal/usecase/approval"
	"bank-loan-service/internal/usecase/loan"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (loanDomain.Repository, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		gdb, err := db.OpenGorm(db.InMemoryDSN, zlog)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		repo := sqlite.NewLoanRepository(gdb)
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return repo, nil
	default:
		return memory.NewLoanRepository(), nil
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openStore(ctx, cfg, zlog)
	if err != nil {
		return err
	}

	loans := loan.NewUsecase(repo, zlog)
	decisions := approval.NewUsecase(repo, zlog)
	h := httpadp.NewHandler(httpadp.ServiceInfo{Name: cfg.ServiceName, Version: cfg.ServiceVersion}, loans, zlog)
	lh := httpadp.NewLoanHandler(loans, decisions, zlog)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		middleware.RequestLogger(zlog),
		echomw.CORS(),
		middleware.Metrics(),
	)

	if cfg.IdempotencyEnabled() {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("open redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		e.Use(middleware.Idempotency(rdb, cfg.IdempotencyTTL(), zlog))
		zlog.Info("idempotency enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	// routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	httpadp.RegisterRoutes(e, h, lh)

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("listening",
			zap.String("addr", "http://"+cfg.Addr()),
			zap.String("store", cfg.StoreDriver),
		)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
