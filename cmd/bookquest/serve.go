package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookquest/bookquest-api/internal/api"
	"github.com/bookquest/bookquest-api/internal/api/handler"
	"github.com/bookquest/bookquest-api/internal/core/service"
	"github.com/bookquest/bookquest-api/internal/infrastructure/catalog"
	mongostore "github.com/bookquest/bookquest-api/internal/infrastructure/db/mongo"
	redisstore "github.com/bookquest/bookquest-api/internal/infrastructure/db/redis"
	"github.com/bookquest/bookquest-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "ensure MongoDB indexes before serving")

	return cmd
}

func serve(parent context.Context, migrate bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if migrate {
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return err
		}
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	proxies, err := cfg.ProxyNets()
	if err != nil {
		return err
	}

	limiter, err := redisstore.NewFixedWindowLimiter(rdb, "", cfg.RateLimit.Limit, cfg.RateLimit.Window)
	if err != nil {
		return err
	}

	// --- Repositories ---
	users := mongostore.NewUserRepository(db)
	requests := mongostore.NewRequestRepository(db)
	quotes := mongostore.NewQuoteRepository(db)

	// --- Services ---
	tokens := service.NewTokenService(users, redisstore.NewRevocationStore(rdb), cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(users, tokens, logger.Component("auth"))
	requestService := service.NewRequestService(requests, quotes, users, logger.Component("requests"))
	quoteService := service.NewQuoteService(quotes, requests, users,
		service.QuoteOptions{AcceptCascade: cfg.AcceptCascade}, logger.Component("quotes"))

	catalogLog := logger.Component("catalog")
	catalogClient := catalog.New(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	}, catalogLog)
	if !catalogClient.Configured() {
		catalogLog.Warn().Msg("ISBNDB_API_KEY is not set; catalog lookups will fail")
	}
	catalogService := service.NewCatalogService(catalogClient, service.CatalogOptions{
		Configured: catalogClient.Configured(),
		BaseURL:    catalogClient.BaseURL(),
		CacheTTL:   cfg.Catalog.CacheTTL,
	}, catalogLog)
	go catalogService.Start()
	defer catalogService.Stop()

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Requests: requestService,
		Quotes:   quoteService,
		Catalog:  catalogService,
		Verifier: tokens,
		Limiter:  limiter,
		Checks: map[string]handler.Check{
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: proxies,
		Logger:         logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Str("addr", srv.Addr).Msg("stopped server")
	return nil
}
