// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"roommate-finder/internal/common/auth"
	"roommate-finder/internal/common/camunda"
	"roommate-finder/internal/common/config"
	"roommate-finder/internal/common/database"
	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/common/observability"
	"roommate-finder/internal/common/retry"
	"roommate-finder/internal/httpapi"
	"roommate-finder/internal/matching"
	"roommate-finder/internal/repository"
)

var connectPolicy = retry.Policy{
	Attempts:     10,
	InitialDelay: 2 * time.Second,
	MaxDelay:     20 * time.Second,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs, err := observability.New("roommate-api")
	if err != nil {
		zapLog.Warn("metrics exporter unavailable", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres config invalid", zap.Error(err))
	}
	if err := retry.WithBackoff(ctx, connectPolicy, zapLog, "PostgreSQL connection", pg.Ping); err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := database.Migrate(ctx, pg.DB); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}

	rdb := database.NewRedis(cfg.Database.Redis)
	if err := retry.WithBackoff(ctx, connectPolicy, zapLog, "Redis connection", rdb.Ping); err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()

	store := repository.NewStore(pg.DB)
	deps := httpapi.Deps{
		Users:    store.Users,
		Listings: store.Listings,
		Messages: store.Messages,
		Sessions: auth.NewSessionStore(rdb.Client, config.GetDuration(cfg.Auth.SessionTTL)),
		Profiles: repository.NewProfileCache(rdb.Client, store.Users, config.GetDuration(cfg.Matching.ProfileCacheTTL), log),
		Ranker:   matching.NewRanker(cfg.Matching.Parallelism),
		Logger:   log,
		Checks: []httpapi.Check{
			{Name: "postgres", Fn: pg.Ping},
			{Name: "redis", Fn: rdb.Ping},
		},
		Options: httpapi.Options{
			Version:        cfg.App.Version,
			CORSOrigins:    cfg.Server.CORSOrigins,
			RatePerSecond:  cfg.Server.RateLimit.RequestsPerSecond,
			RateBurst:      cfg.Server.RateLimit.Burst,
			TrustedProxies: cfg.Server.TrustedProxies,
			BcryptCost:     cfg.Auth.BcryptCost,
			ListingIndex:   cfg.Database.Elasticsearch.ListingIndex,
			RequestTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		},
	}

	// Search indexing and notifications are optional; the API serves without them.
	if len(cfg.Database.Elasticsearch.Addresses) > 0 {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Warn("elasticsearch disabled", zap.Error(err))
		} else if err := es.EnsureIndex(ctx, cfg.Database.Elasticsearch.ListingIndex, database.ListingIndexMapping); err != nil {
			zapLog.Warn("elasticsearch unreachable, listings will not be indexed", zap.Error(err))
		} else {
			deps.Indexer = es
		}
	}

	if cfg.Camunda.BrokerAddress != "" {
		zeebe, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), zapLog)
		if err != nil {
			zapLog.Warn("zeebe unreachable, message notifications disabled", zap.Error(err))
		} else {
			defer zeebe.Close()
			deps.Notifier = newWorkflowNotifier(zeebe)
			deps.Checks = append(deps.Checks, httpapi.Check{Name: "zeebe", Fn: zeebe.HealthCheck})
		}
	}

	handler, err := httpapi.New(deps)
	if err != nil {
		zapLog.Fatal("api setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadTimeout:       config.GetDuration(cfg.Server.ReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.GetDuration(cfg.Server.WriteTimeout) + time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zapLog.Info("API listening", zap.String("address", cfg.Server.Address), zap.String("version", cfg.App.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("API server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during shutdown", zap.Error(err))
	}
	zapLog.Info("API stopped gracefully")
}
