package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/storefront/internal/cache"
	"github.com/iliyamo/storefront/internal/config"
	"github.com/iliyamo/storefront/internal/database"
	"github.com/iliyamo/storefront/internal/handler"
	"github.com/iliyamo/storefront/internal/middleware"
	"github.com/iliyamo/storefront/internal/policy"
	"github.com/iliyamo/storefront/internal/queue"
	"github.com/iliyamo/storefront/internal/repository"
	"github.com/iliyamo/storefront/internal/router"
	"github.com/iliyamo/storefront/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, config.Load())
	},
}

func serve(ctx context.Context, cfg config.Config) error {
	figure.NewFigure("storefront", "cybermedium", true).Print()
	fmt.Println()

	db, err := database.Open(ctx, database.DSN(cfg.DB))
	if err != nil {
		return err
	}
	defer db.Close()

	cacheCfg := config.LoadCacheConfig()
	var (
		rdb   *redis.Client
		store cache.Cache
	)
	switch cacheCfg.Backend {
	case config.CacheMemory:
		log.Warn().Msg("using in-process cache; revocations are not shared between instances")
		store = cache.NewMemory()
	default:
		rdb, err = config.NewRedisClient(ctx)
		if err != nil {
			return err
		}
		defer rdb.Close()
		store = cache.NewRedisCache(rdb)
	}

	var events queue.Publisher = queue.NoopPublisher{}
	if cfg.RabbitURL != "" {
		events = queue.NewAMQPPublisher(cfg.RabbitURL)
	} else {
		log.Info().Msg("RABBITMQ_URL unset; entity change events are dropped")
	}

	keys := cache.Keys{Prefix: cacheCfg.Prefix}
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, service.NewRevocationList(store, keys))
	pol := policy.New(tokens)

	users := repository.NewUserRepository(repository.NewUserStore(db), store, keys, cacheCfg.TTL)
	products := repository.NewProductRepository(repository.NewProductStore(db), store, keys, cacheCfg.TTL)
	categories := repository.NewCategoryRepository(repository.NewCategoryStore(db), store, keys, cacheCfg.TTL)

	userHandler := handler.NewUserHandler(service.NewUserService(users, tokens, pol, cfg.BcryptCost, events))
	catalogHandler := handler.NewCatalogHandler(
		service.NewProductService(products, pol, events),
		service.NewCategoryService(categories, pol, events),
	)

	e := echo.New()
	e.HideBanner = true
	router.Use(e)
	router.RegisterRoutes(e, router.Handlers{
		Users:   userHandler,
		Catalog: catalogHandler,
		Checks:  healthChecks(db, rdb),
	}, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func healthChecks(db *sql.DB, rdb *redis.Client) []handler.Check {
	checks := []handler.Check{{Name: "mysql", Ping: db.PingContext}}
	if rdb != nil {
		checks = append(checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return checks
}
