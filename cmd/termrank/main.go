package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Adithya-Monish-Kumar-K/termrank/internal/cache"
	"github.com/Adithya-Monish-Kumar-K/termrank/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/termrank/internal/publisher"
	"github.com/Adithya-Monish-Kumar-K/termrank/internal/store"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/database"
	apperrors "github.com/Adithya-Monish-Kumar-K/termrank/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/resilience"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file (optional)")
	manifest := flag.String("manifest", "", "document manifest, one file name per line")
	stopwords := flag.String("stopwords", "", "stop-word list, one word per line")
	docDir := flag.String("docs", "", "directory document names are resolved against")
	outDir := flag.String("out", "", "directory artifacts are written to")
	topN := flag.Int("top-n", 0, "terms emitted per document")
	workers := flag.Int("workers", -1, "parallel document workers (0 = number of CPUs)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return apperrors.ExitCode(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "manifest":
			cfg.Pipeline.Manifest = *manifest
		case "stopwords":
			cfg.Pipeline.Stopwords = *stopwords
		case "docs":
			cfg.Pipeline.DocumentDir = *docDir
		case "out":
			cfg.Pipeline.OutputDir = *outDir
		case "top-n":
			cfg.Pipeline.TopN = *topN
		case "workers":
			cfg.Pipeline.Workers = *workers
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return apperrors.ExitCode(err)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting termrank",
		"manifest", cfg.Pipeline.Manifest,
		"output_dir", cfg.Pipeline.OutputDir,
		"top_n", cfg.Pipeline.TopN,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps := pipeline.Deps{Metrics: metrics.New(reg)}
	checker := health.NewChecker()
	breakerCfg := resilience.BreakerConfig{
		FailureThreshold: cfg.Resilience.FailureThreshold,
		Cooldown:         cfg.Resilience.Cooldown,
		CallTimeout:      cfg.Resilience.CallTimeout,
	}

	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port, reg, checker)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", "error", err)
			}
		}()
	}

	if cfg.Store.Driver != "" {
		db, err := database.Open(cfg)
		if err != nil {
			slog.Error("failed to open result store", "driver", cfg.Store.Driver, "error", err)
			return apperrors.ExitFailure
		}
		defer db.Close()
		checker.Register("store", db.DB.PingContext)
		resultStore := store.New(db)
		if err := resultStore.Migrate(ctx); err != nil {
			slog.Error("failed to migrate result store", "error", err)
			return apperrors.ExitFailure
		}
		deps.Store = resultStore
	}

	var textCache *cache.TextCache
	if cfg.Cache.Enabled {
		redisClient, err := redis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, running without cache", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer redisClient.Close()
			checker.Register("redis", redisClient.Ping)
			textCache = cache.New(redisClient, cfg.Redis.CacheTTL).
				WithBreaker(resilience.NewBreaker("redis", breakerCfg))
			deps.Cache = textCache
		}
	}

	if cfg.Publish.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.DocumentScored)
		defer producer.Close()
		deps.Publisher = publisher.New(producer).
			WithBreaker(resilience.NewBreaker("kafka", breakerCfg))
	}

	report, err := pipeline.New(cfg.Pipeline, deps).Run(ctx)
	if textCache != nil {
		hits, misses := textCache.Stats()
		slog.Info("text cache", "hits", hits, "misses", misses)
	}
	if err != nil {
		slog.Error("run aborted", "error", err)
		return apperrors.ExitCode(err)
	}
	for _, failure := range report.Failures {
		slog.Error("run failure", "doc_id", apperrors.DocumentOf(failure), "error", failure)
	}
	return apperrors.ExitCode(report.Err())
}
