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

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"scholarship-workers/internal/common/camunda"
	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/database"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/pkg/registry"

	as "scholarship-workers/internal/workers/counseling/analyze-scholarships"
	cf "scholarship-workers/internal/workers/counseling/calculate-financials"
	cs "scholarship-workers/internal/workers/counseling/classify-student"
	ms "scholarship-workers/internal/workers/counseling/match-scholarships"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog)

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
			RetryConfig:            camunda.DefaultRetryConfig,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Load Activity Registry ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Warn("activity registry unavailable", zap.String("path", cfg.Registry.Path), zap.Error(err))
	} else {
		zapLog.Info("activity registry loaded", zap.Int("activities", len(reg.Activities)))
	}

	// --- Register Counseling Pipeline Workers (4) ---
	var workers []*camunda.CamundaWorker
	zeebeClient := camundaClient.GetClient()

	if cfg.Workers[as.TaskType].Enabled {
		handler := as.NewHandler(
			&as.Config{
				MinSectionLength: cfg.Counseling.MinSectionLength,
				Timeout:          config.GetDuration(cfg.Workers[as.TaskType].Timeout),
			},
			log,
		)
		workers = append(workers, startWorker(zeebeClient, as.TaskType, cfg.Workers[as.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[cs.TaskType].Enabled {
		handler := cs.NewHandler(
			&cs.Config{
				CacheTTL: cfg.Counseling.ProfileCacheTTL(),
				Timeout:  config.GetDuration(cfg.Workers[cs.TaskType].Timeout),
			},
			redis.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, cs.TaskType, cfg.Workers[cs.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[ms.TaskType].Enabled {
		handler := ms.NewHandler(
			&ms.Config{
				Timeout: config.GetDuration(cfg.Workers[ms.TaskType].Timeout),
			},
			redis.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, ms.TaskType, cfg.Workers[ms.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[cf.TaskType].Enabled {
		handler := cf.NewHandler(
			&cf.Config{
				Timeout: config.GetDuration(cfg.Workers[cf.TaskType].Timeout),
			},
			log,
		)
		workers = append(workers, startWorker(zeebeClient, cf.TaskType, cfg.Workers[cf.TaskType], handler.Handle, zapLog))
	}

	zapLog.Info("All counseling workers registered", zap.Int("workers", len(workers)))

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
		http.HandleFunc("/registry", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if reg == nil {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"error": "registry not loaded"})
				return
			}
			json.NewEncoder(w).Encode(reg)
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
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc, log *zap.Logger) *camunda.CamundaWorker {
	return camunda.NewWorker(
		client,
		taskType,
		wcfg.MaxJobsActive,
		config.GetDuration(wcfg.Timeout),
		handlerFunc,
		log,
	)
}
