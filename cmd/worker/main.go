package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wavelinehq/notifier/internal/config"
	"github.com/wavelinehq/notifier/internal/infrastructure/postgres"
	"github.com/wavelinehq/notifier/internal/infrastructure/sns"
	kafkaconsumer "github.com/wavelinehq/notifier/internal/kafka"
	"github.com/wavelinehq/notifier/internal/metrics"
	"github.com/wavelinehq/notifier/internal/processor"
	transporthttp "github.com/wavelinehq/notifier/internal/transport/http"
)

func main() {
	// ── Logging ──────────────────────────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ── Config ───────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting notifier worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Databases ─────────────────────────────────────────────────────────────
	discoveryPool, err := pgxpool.New(ctx, cfg.Discovery.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to discovery postgres")
	}
	defer discoveryPool.Close()

	identityPool, err := pgxpool.New(ctx, cfg.Identity.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to identity postgres")
	}
	defer identityPool.Close()

	if err := discoveryPool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("discovery postgres ping failed")
	}
	if err := identityPool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("identity postgres ping failed")
	}
	log.Info().Msg("postgres connected")

	entities := postgres.NewDiscoveryStore(discoveryPool)
	settings := postgres.NewIdentityStore(identityPool)

	// ── Push Sink (AWS SNS) ───────────────────────────────────────────────────
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load aws config")
	}
	pushSink := sns.New(awssns.NewFromConfig(awsCfg))

	// ── Browser Channel (SSE Hub) ─────────────────────────────────────────────
	hub := transporthttp.NewHub()

	// ── Pipeline ──────────────────────────────────────────────────────────────
	deps := &processor.Deps{
		Entities: entities,
		Settings: settings,
		Push:     pushSink,
		Browser:  hub,
		Metrics:  metrics.New(prometheus.DefaultRegisterer),
	}
	orchestrator := processor.NewOrchestrator(deps)

	// ── HTTP Server ───────────────────────────────────────────────────────────
	handler := transporthttp.NewHandler(settings, hub)
	router := transporthttp.NewRouter(handler, cfg.Auth.JWTSecret)

	// ── Kafka Consumer (row source) ───────────────────────────────────────────
	consumer, err := kafkaconsumer.New(
		cfg.Kafka.Brokers,
		cfg.Kafka.ConsumerGroupID,
		cfg.Kafka.Topic,
		orchestrator,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka consumer")
	}

	go consumer.Start(ctx)
	log.Info().Str("topic", cfg.Kafka.Topic).Msg("kafka consumer started")

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	// ── Graceful Shutdown ─────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("notifier worker stopped")
}
