// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kjet-workers/internal/common/aws"
	"kjet-workers/internal/common/camunda"
	"kjet-workers/internal/common/config"
	"kjet-workers/internal/common/database"
	"kjet-workers/internal/common/logger"
	"kjet-workers/internal/common/observability"

	// Evaluation Workers (5)
	er "kjet-workers/internal/workers/evaluation/evaluate-region"
	ir "kjet-workers/internal/workers/evaluation/index-rankings"
	ns "kjet-workers/internal/workers/evaluation/notify-shortlisted"
	sr "kjet-workers/internal/workers/evaluation/store-evaluation-results"
	vr "kjet-workers/internal/workers/evaluation/validate-application-record"
)

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
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("Zeebe client failed after retries", zap.Error(err))
	}
	defer camundaClient.Close()
	zapLog.Info("Zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Init PostgreSQL with retry ---
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
		zapLog.Fatal("PostgreSQL failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected", zap.String("host", cfg.Database.Postgres.Host))

	// --- Init Elasticsearch with retry ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("Elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected", zap.Strings("addresses", cfg.Database.Elasticsearch.Addresses))

	// --- Init Redis with retry ---
	var rd *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rd, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rd.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("Redis failed after retries", zap.Error(err))
	}
	defer rd.Close()
	zapLog.Info("Redis connected", zap.String("address", cfg.Database.Redis.Address))

	// --- Init AWS notification clients ---
	// Missing AWS credentials disable the affected channel instead of
	// blocking the evaluation pipeline.
	var emailSender ns.EmailSender
	var smsSender ns.SMSSender
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("SES client unavailable, email notifications disabled", zap.Error(err))
		} else {
			emailSender = sesClient
		}
	}
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("SNS client unavailable, SMS notifications disabled", zap.Error(err))
		} else {
			smsSender = snsClient
		}
	}

	// --- Register Evaluation Workers (5) ---
	workers := camunda.NewWorkerSet(camundaClient, obs, zapLog)

	if config.IsWorkerEnabled(cfg, vr.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, vr.TaskType)
		handler := vr.NewHandler(&vr.Config{
			Timeout: config.GetDuration(wcfg.Timeout),
		}, log)
		workers.Start(vr.TaskType, workerOptions(wcfg), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, er.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, er.TaskType)
		handler := er.NewHandler(&er.Config{
			Timeout:  config.GetDuration(wcfg.Timeout),
			CacheTTL: config.GetDuration(cfg.Engine.CohortCacheTTL),
		}, rd.Client, log)
		workers.Start(er.TaskType, workerOptions(wcfg), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, sr.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, sr.TaskType)
		handler := sr.NewHandler(&sr.Config{
			Timeout: config.GetDuration(wcfg.Timeout),
		}, pg.DB, log)
		workers.Start(sr.TaskType, workerOptions(wcfg), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, ir.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, ir.TaskType)
		handler := ir.NewHandler(&ir.Config{
			Timeout: config.GetDuration(wcfg.Timeout),
			Index:   cfg.Engine.RankingsIndex,
		}, es.Client, log)
		workers.Start(ir.TaskType, workerOptions(wcfg), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, ns.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, ns.TaskType)
		handler := ns.NewHandler(&ns.Config{
			Timeout:      config.GetDuration(wcfg.Timeout),
			FromEmail:    cfg.Notifications.Email.FromEmail,
			SMSSenderID:  cfg.Notifications.SMS.SMSSenderID,
			EmailEnabled: cfg.Notifications.Email.Enabled,
			SMSEnabled:   cfg.Notifications.SMS.Enabled,
		}, emailSender, smsSender, log)
		workers.Start(ns.TaskType, workerOptions(wcfg), handler.Handle)
	}

	zapLog.Info("Workers registered", zap.Int("count", workers.Len()))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := pg.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	zapLog.Info("Shutdown signal received, stopping workers", zap.String("signal", sig.String()))
	workers.Close()
}

func workerOptions(wcfg config.WorkerConfig) camunda.WorkerOptions {
	return camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
	}
}
