// cmd/worker-manager/main.go
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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"archai-workers/internal/common/artifacts"
	"archai-workers/internal/common/config"
	"archai-workers/internal/common/database"
	"archai-workers/internal/common/events"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/common/metrics"
	"archai-workers/internal/common/observability"
	"archai-workers/internal/common/reasoning"
	"archai-workers/internal/common/validation"
	"archai-workers/pkg/registry"

	// Stage workers
	as "archai-workers/internal/workers/analysis/analyze-stability"
	sa "archai-workers/internal/workers/analysis/select-archetype"
	cr "archai-workers/internal/workers/intake/clarify-requirements"
	nc "archai-workers/internal/workers/intake/normalize-constraints"
	qg "archai-workers/internal/workers/review/run-quality-gate"
	vc "archai-workers/internal/workers/review/validate-consistency"

	// Pipeline and peripheral workers
	ia "archai-workers/internal/workers/data-access/index-audit"
	pb "archai-workers/internal/workers/data-access/persist-blueprint"
	gb "archai-workers/internal/workers/orchestration/generate-blueprint"
)

const activityRegistryPath = "configs/activity-registry.json"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("executionMode", cfg.Pipeline.ExecutionMode),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()
	var checks []readinessCheck
	var sinks []gb.Sink

	// --- PostgreSQL blueprint store ---
	var store *pb.Store
	if cfg.Database.Postgres.Enabled() {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		store = pb.NewStore(pg.DB, log)
		if err := store.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("blueprint schema setup failed", zap.Error(err))
		}
		checks = append(checks, pg)
		sinks = append(sinks, store)
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Elasticsearch audit index ---
	var indexer *ia.Indexer
	if cfg.Database.Elasticsearch.Enabled() {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		indexer = ia.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.AuditIndex, log)
		if err := indexer.EnsureIndex(ctx); err != nil {
			zapLog.Warn("audit index setup failed", zap.Error(err))
		}
		checks = append(checks, esClient)
		sinks = append(sinks, indexer)
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Redis verdict cache ---
	var rdb *database.RedisClient
	if cfg.Database.Redis.Enabled() {
		rdb = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		checks = append(checks, rdb)
		zapLog.Info("Redis connected successfully")
	}

	// --- Artifacts and events ---
	catalog := gb.MustDefaultCatalog()
	if cfg.Storage.Minio.Enabled {
		uploader, err := artifacts.NewMinioUploader(cfg.Storage.Minio, log)
		if err != nil {
			zapLog.Fatal("minio client failed", zap.Error(err))
		}
		if cfg.Storage.Minio.PublicBaseURL != "" {
			catalog.Handoff.BaseURL = cfg.Storage.Minio.PublicBaseURL
		}
		sinks = append(sinks, uploader)
	}
	if cfg.Events.SNS.Enabled {
		publisher, err := events.NewSNSPublisher(ctx, cfg.Events.SNS.Region, cfg.Events.SNS.TopicARN, log)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		sinks = append(sinks, publisher)
	}

	reasoner, err := buildReasoner(ctx, cfg, rdb, zapLog)
	if err != nil {
		zapLog.Fatal("reasoning client failed", zap.Error(err))
	}

	// --- Pipeline ---
	pipelineCfg := gb.LoadConfig(cfg.Pipeline, cfg.Reasoning)
	if wcfg, ok := cfg.Workers[gb.TaskType]; ok && wcfg.Timeout > 0 {
		pipelineCfg.Timeout = config.GetDuration(wcfg.Timeout)
	}
	pipeline := gb.NewPipeline(pipelineCfg, reasoner, obs, log, gb.WithCatalog(catalog))
	generate := gb.NewHandler(pipelineCfg, pipeline, log, sinks...)

	validator, err := validation.NewValidator(validation.GenerateRequestSchema)
	if err != nil {
		zapLog.Fatal("request schema failed to load", zap.Error(err))
	}

	var reader gb.BlueprintReader
	if store != nil {
		reader = store
	}
	api := gb.NewAPI(generate, reader, validator, log)

	// --- Zeebe workers ---
	var zeebeClient zbc.Client
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		reg, err := registry.LoadRegistry(activityRegistryPath)
		if err != nil {
			zapLog.Warn("activity registry unavailable", zap.Error(err))
		}

		registerWorkers(zeebeClient, cfg, reg, workerSet{
			generate: generate,
			reasoner: reasoner,
			store:    store,
			indexer:  indexer,
		}, log, zapLog)
	} else {
		zapLog.Info("camunda disabled, serving HTTP only")
	}

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      newMux(api, checks),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildReasoner returns nil when no API key is configured; live runs then
// fall back to the safe-default clarification verdict.
func buildReasoner(ctx context.Context, cfg *config.Config, rdb *database.RedisClient, log *zap.Logger) (reasoning.Client, error) {
	if cfg.Reasoning.APIKey == "" {
		log.Info("reasoning disabled, no api key configured")
		return nil, nil
	}

	base, err := reasoning.New(ctx, cfg.Reasoning)
	if err != nil {
		return nil, err
	}

	opts := []reasoning.CacheOption{reasoning.WithCacheObserver(metrics.ObserveCacheLookup)}
	if rdb != nil {
		opts = append(opts, reasoning.WithRedis(rdb.Client, config.GetDuration(cfg.Reasoning.CacheTTL)))
	}
	cached, err := reasoning.NewCachedClient(base, cfg.Reasoning.CacheSize, opts...)
	if err != nil {
		return nil, err
	}

	log.Info("reasoning client ready", zap.String("client", cached.Name()))
	return cached, nil
}

type workerSet struct {
	generate *gb.Handler
	reasoner reasoning.Client
	store    *pb.Store
	indexer  *ia.Indexer
}

func registerWorkers(client zbc.Client, cfg *config.Config, reg *registry.ActivityRegistry, set workerSet, log logger.Logger, zapLog *zap.Logger) {
	start := func(taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job)) {
		if reg != nil && !reg.HasTaskType(taskType) {
			zapLog.Warn("task type missing from activity registry", zap.String("taskType", taskType))
		}
		startWorker(client, taskType, wcfg, handlerFunc, zapLog)
	}

	timeoutFor := func(taskType string, fallback time.Duration) time.Duration {
		if wcfg, ok := cfg.Workers[taskType]; ok && wcfg.Timeout > 0 {
			return config.GetDuration(wcfg.Timeout)
		}
		return fallback
	}

	start(gb.TaskType, config.GetWorkerConfig(cfg, gb.TaskType), set.generate.Handle)

	{
		wcfg := cr.LoadConfig(cfg.Pipeline, cfg.Reasoning)
		wcfg.Timeout = timeoutFor(cr.TaskType, wcfg.Timeout)
		start(cr.TaskType, config.GetWorkerConfig(cfg, cr.TaskType), cr.NewHandler(wcfg, set.reasoner, log).Handle)
	}
	{
		wcfg := nc.LoadConfig()
		wcfg.Timeout = timeoutFor(nc.TaskType, wcfg.Timeout)
		start(nc.TaskType, config.GetWorkerConfig(cfg, nc.TaskType), nc.NewHandler(wcfg, log).Handle)
	}
	{
		wcfg := as.LoadConfig(cfg.Pipeline)
		wcfg.Timeout = timeoutFor(as.TaskType, wcfg.Timeout)
		start(as.TaskType, config.GetWorkerConfig(cfg, as.TaskType), as.NewHandler(wcfg, log).Handle)
	}
	{
		wcfg := sa.LoadConfig()
		wcfg.Timeout = timeoutFor(sa.TaskType, wcfg.Timeout)
		start(sa.TaskType, config.GetWorkerConfig(cfg, sa.TaskType), sa.NewHandler(wcfg, log).Handle)
	}
	{
		wcfg := qg.LoadConfig(cfg.Pipeline)
		wcfg.Timeout = timeoutFor(qg.TaskType, wcfg.Timeout)
		start(qg.TaskType, config.GetWorkerConfig(cfg, qg.TaskType), qg.NewHandler(wcfg, log).Handle)
	}
	{
		wcfg := vc.LoadConfig(cfg.Pipeline)
		wcfg.Timeout = timeoutFor(vc.TaskType, wcfg.Timeout)
		start(vc.TaskType, config.GetWorkerConfig(cfg, vc.TaskType), vc.NewHandler(wcfg, log).Handle)
	}

	if set.store != nil {
		wcfg := pb.LoadConfig()
		wcfg.Timeout = timeoutFor(pb.TaskType, wcfg.Timeout)
		start(pb.TaskType, config.GetWorkerConfig(cfg, pb.TaskType), pb.NewHandler(wcfg, set.store, log).Handle)
	}
	if set.indexer != nil {
		wcfg := ia.LoadConfig(cfg.Database.Elasticsearch.AuditIndex)
		wcfg.Timeout = timeoutFor(ia.TaskType, wcfg.Timeout)
		start(ia.TaskType, config.GetWorkerConfig(cfg, ia.TaskType), ia.NewHandler(wcfg, set.indexer, log).Handle)
	}
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
