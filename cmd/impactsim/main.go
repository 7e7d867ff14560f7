package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	httpadapter "github.com/couchcryptid/asteroid-impact-sim/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/asteroid-impact-sim/internal/adapter/kafka"
	"github.com/couchcryptid/asteroid-impact-sim/internal/adapter/neows"
	"github.com/couchcryptid/asteroid-impact-sim/internal/adapter/scene"
	"github.com/couchcryptid/asteroid-impact-sim/internal/config"
	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
	"github.com/couchcryptid/asteroid-impact-sim/internal/pipeline"
	"github.com/couchcryptid/asteroid-impact-sim/internal/simulation"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := neows.NewClient(cfg.NeoWsBaseURL, cfg.NeoWsAPIKey, cfg.NeoWsTimeout, metrics, logger)
	catalog := neows.NewCachedCatalog(client, cfg.NeoWsCacheSize, metrics)
	logger.Info("neows catalog configured", "base_url", cfg.NeoWsBaseURL, "cache_size", cfg.NeoWsCacheSize)

	// Impact publishing is feature-flagged via KAFKA_ENABLED.
	var publisher simulation.EventPublisher = simulation.NopPublisher{}
	var producer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		producer = kafkaadapter.NewPublisher(cfg, logger, metrics)
		publisher = producer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	sc := scene.New()
	svc := simulation.NewService(simulation.Options{
		Catalog:           catalog,
		Renderer:          sc,
		Publisher:         publisher,
		SessionsPerClient: cfg.SessionsPerClient,
		MaxSessions:       cfg.MaxSessions,
	}, logger, metrics)

	var (
		ready  sharedobs.ReadinessChecker = svc
		p      *pipeline.Pipeline
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p = pipeline.New(reader, pipeline.NewTransformer(logger, metrics), writer, logger, metrics, cfg.BatchSize)
		ready = p
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, sc, ready, cfg.TrustProxy, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start the batch scenario pipeline.
	var wg sync.WaitGroup
	if p != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	wg.Wait()
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
