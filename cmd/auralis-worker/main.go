// Command auralis-worker runs the standalone fingerprint-extraction worker
// pool (C7) against a SQLite-backed track queue: it claims unfingerprinted
// tracks, runs them through the two-level cache and analyzer, and stores
// the resulting fingerprint back on the claimed row.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"auralis.core/internal/cache"
	"auralis.core/internal/config"
	"auralis.core/internal/fingerprint"
	"auralis.core/internal/logger"
	"auralis.core/internal/metrics"
	"auralis.core/internal/pcm"
	"auralis.core/internal/queue"
	"auralis.core/internal/telemetry"
)

// decodeFile is the audio-decoding boundary this module does not implement:
// decoding compressed/container audio formats into PCM is explicitly out of
// scope (§1 Non-goals) and the core's contract takes PCM buffers, not file
// paths. A production deployment replaces this with a real decoder (e.g. an
// ffmpeg or libsndfile shim) before starting the pool.
func decodeFile(ctx context.Context, filePath string) (pcm.Buffer, error) {
	return pcm.Buffer{}, fmt.Errorf("decoding %q: no audio decoder is wired into auralis-worker", filePath)
}

func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "auralis-worker.log"
	}
	if err := logger.Initialize(logLevel, logFile); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== Auralis worker starting ===")

	if err := godotenv.Load(); err != nil {
		logger.Log.Warn("no .env file found, using system environment variables")
	}

	var opts []config.Option
	opts = append(opts, config.WithSampleRate(envInt("AURALIS_SAMPLE_RATE", 44100)))
	opts = append(opts, config.WithPreset(envOr("AURALIS_PRESET", "adaptive")))
	opts = append(opts, config.WithTracing(envBool("AURALIS_TRACING_ENABLED", false)))
	opts = append(opts, config.WithMetrics(envBool("AURALIS_METRICS_ENABLED", true)))
	if dir := os.Getenv("AURALIS_CACHE_DIR"); dir != "" {
		opts = append(opts, config.WithCacheDir(dir))
	}
	if n := envInt("AURALIS_WORKERS", 0); n > 0 {
		opts = append(opts, config.WithWorkers(n))
	}

	cfg, err := config.New(opts...)
	if err != nil {
		logger.FatalWithFields("invalid configuration", err)
	}

	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.TracingEnabled {
		tp, err := telemetry.InitTracer(telemetry.Config{
			ServiceName:  "auralis-worker",
			Environment:  envOr("AURALIS_ENVIRONMENT", "development"),
			Enabled:      true,
			SamplingRate: 1.0,
		})
		if err != nil {
			logger.Log.Warn("failed to initialize tracing", zap.Error(err))
		} else if tp != nil {
			tracerProvider = tp
			logger.Log.Info("tracing enabled", zap.String("service", "auralis-worker"))
		}
	}
	if tracerProvider != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(ctx); err != nil {
				logger.Log.Error("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	if cfg.MetricsEnabled {
		metrics.Initialize()
		metricsAddr := envOr("AURALIS_METRICS_ADDR", ":9090")
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Log.Info("metrics endpoint listening", zap.String("addr", metricsAddr))
			if err := http.ListenAndServe(metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Log.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	fingerprintCache, err := cache.New(cfg.CacheDir,
		cache.WithMaxMemory(cfg.MaxMemoryEntries),
		cache.WithMaxSizeGB(cfg.MaxCacheGB),
	)
	if err != nil {
		logger.FatalWithFields("failed to open fingerprint cache", err)
	}

	repo, err := queue.NewSQLiteRepository(envOr("AURALIS_QUEUE_DB", cfg.CacheDir+"/queue.db"))
	if err != nil {
		logger.FatalWithFields("failed to open track queue", err)
	}

	analyzer := fingerprint.New()
	extractor := queue.NewCacheBackedExtractor(analyzer, fingerprintCache, repo, decodeFile)

	pool := queue.New(repo, extractor, queue.WithWorkers(cfg.Workers))
	pool.Start(context.Background())

	logger.Log.Info("worker pool running", zap.Int("workers", cfg.Workers))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down auralis-worker...")

	if !pool.Stop(30 * time.Second) {
		logger.Log.Warn("worker pool did not drain within shutdown timeout")
	}

	stats := pool.Stats()
	logger.Log.Info("auralis-worker exited",
		zap.Int64("completed", stats.Completed),
		zap.Int64("failed", stats.Failed),
		zap.Int64("retried", stats.Retried),
	)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
