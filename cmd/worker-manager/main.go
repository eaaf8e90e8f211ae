// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsx "roommate-finder/internal/common/aws"
	"roommate-finder/internal/common/camunda"
	"roommate-finder/internal/common/config"
	"roommate-finder/internal/common/database"
	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/common/observability"
	"roommate-finder/internal/common/retry"
	"roommate-finder/internal/common/validation"
	"roommate-finder/internal/repository"
	"roommate-finder/pkg/registry"

	qe "roommate-finder/internal/workers/data-access/query-elasticsearch"
	qp "roommate-finder/internal/workers/data-access/query-postgresql"
	br "roommate-finder/internal/workers/infrastructure/build-response"
	psf "roommate-finder/internal/workers/listing/parse-search-filters"
	cc "roommate-finder/internal/workers/matching/calculate-compatibility"
	rm "roommate-finder/internal/workers/matching/rank-matches"
	sn "roommate-finder/internal/workers/messaging/send-notification"
)

const healthAddress = ":8080"

var connectPolicy = retry.Policy{
	Attempts:     15,
	InitialDelay: 2 * time.Second,
	MaxDelay:     30 * time.Second,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Warn("metrics exporter unavailable", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := registry.Default()
	if err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	schemas := validation.NewValidator()
	if err := reg.RegisterSchemas(schemas); err != nil {
		zapLog.Fatal("activity schemas invalid", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), zapLog)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres config invalid", zap.Error(err))
	}
	if err := retry.WithBackoff(ctx, connectPolicy, zapLog, "PostgreSQL connection", pg.Ping); err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Redis ---
	rdb := database.NewRedis(cfg.Database.Redis)
	if err := retry.WithBackoff(ctx, connectPolicy, zapLog, "Redis connection", rdb.Ping); err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Elasticsearch ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch config invalid", zap.Error(err))
	}
	if err := retry.WithBackoff(ctx, connectPolicy, zapLog, "Elasticsearch connection", es.Ping); err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if err := es.EnsureIndex(ctx, cfg.Database.Elasticsearch.ListingIndex, database.ListingIndexMapping); err != nil {
		zapLog.Warn("listing index not ensured", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	store := repository.NewStore(pg.DB)
	profiles := repository.NewProfileCache(rdb.Client, store.Users, config.GetDuration(cfg.Matching.ProfileCacheTTL), log)

	// --- Notification channels ---
	var email sn.EmailSender
	var events sn.EventPublisher
	if cfg.Notifications.Email.Enabled || cfg.Notifications.Events.Enabled {
		awsCfg, err := awsx.LoadConfig(ctx, cfg.Notifications.Region)
		if err != nil {
			zapLog.Warn("aws config unavailable, notifications disabled", zap.Error(err))
		} else {
			if cfg.Notifications.Email.Enabled {
				email = awsx.NewSESClient(awsCfg)
			}
			if cfg.Notifications.Events.Enabled {
				events = awsx.NewSNSClient(awsCfg)
			}
		}
	}

	// --- Workers ---
	var workers []*camunda.Worker
	start := func(taskType string, handler camunda.JobHandler) {
		w := camunda.StartWorker(zeebe.Zeebe(), taskType, workerSettings(cfg, reg, taskType), handler, zapLog)
		if w != nil {
			workers = append(workers, w)
		}
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(workerSettings(cfg, reg, taskType).Timeout)
	}

	{
		c := cc.LoadConfig()
		c.Timeout, c.Schemas = timeout(cc.TaskType), schemas
		start(cc.TaskType, cc.NewHandler(c, profiles, log).Handle)
	}
	{
		c := rm.LoadConfig()
		c.Timeout, c.Schemas = timeout(rm.TaskType), schemas
		if cfg.Matching.Parallelism > 0 {
			c.Parallelism = cfg.Matching.Parallelism
		}
		start(rm.TaskType, rm.NewHandler(c, profiles, log).Handle)
	}
	{
		c := psf.LoadConfig()
		c.Timeout, c.Schemas = timeout(psf.TaskType), schemas
		start(psf.TaskType, psf.NewHandler(c, log).Handle)
	}
	{
		c := qp.LoadConfig()
		c.Timeout, c.Schemas = timeout(qp.TaskType), schemas
		start(qp.TaskType, qp.NewHandler(c, pg.DB, log).Handle)
	}
	{
		c := qe.LoadConfig()
		c.Timeout, c.Schemas = timeout(qe.TaskType), schemas
		c.Index = cfg.Database.Elasticsearch.ListingIndex
		start(qe.TaskType, qe.NewHandler(c, es.Client, log).Handle)
	}
	{
		c := sn.ConfigFrom(cfg.Notifications)
		c.Timeout, c.Schemas = timeout(sn.TaskType), schemas
		start(sn.TaskType, sn.NewHandler(c, store.Users, email, events, log).Handle)
	}
	{
		c := br.LoadConfig()
		c.Timeout, c.Schemas = timeout(br.TaskType), schemas
		start(br.TaskType, br.NewHandler(c, log).Handle)
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		status, code := "ready", http.StatusOK
		for name, check := range map[string]func(context.Context) error{
			"zeebe":    zeebe.HealthCheck,
			"postgres": pg.Ping,
			"redis":    rdb.Ping,
		} {
			if err := check(r.Context()); err != nil {
				checks[name] = err.Error()
				status, code = "unavailable", http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		writeStatus(w, code, status, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	srv := &http.Server{Addr: healthAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", healthAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}
