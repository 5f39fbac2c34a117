package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreyxaxa/Fitness-Center/config"
	kafkactrl "github.com/andreyxaxa/Fitness-Center/internal/controller/kafka"
	"github.com/andreyxaxa/Fitness-Center/internal/controller/restapi"
	"github.com/andreyxaxa/Fitness-Center/internal/controller/worker/outbox"
	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure/ai/gemini"
	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure/ai/resilient"
	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure/identity"
	infrakafka "github.com/andreyxaxa/Fitness-Center/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure/processor"
	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/internal/repo/persistent"
	"github.com/andreyxaxa/Fitness-Center/internal/usecase/recommendation"
	"github.com/andreyxaxa/Fitness-Center/internal/usecase/transformation"
	"github.com/andreyxaxa/Fitness-Center/migrations"
	pkggemini "github.com/andreyxaxa/Fitness-Center/pkg/gemini"
	"github.com/andreyxaxa/Fitness-Center/pkg/httpserver"
	"github.com/andreyxaxa/Fitness-Center/pkg/kafka/consumer"
	"github.com/andreyxaxa/Fitness-Center/pkg/kafka/producer"
	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
	"github.com/andreyxaxa/Fitness-Center/pkg/postgres"
	"github.com/andreyxaxa/Fitness-Center/pkg/s3client"
)

// extra room on top of the AI budget for storage and the response itself
const _writeTimeoutSlack = 30 * time.Second

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)
	defer l.Sync() //nolint:errcheck // stdout sync errors are not actionable

	// Migrations
	if cfg.PG.AutoMigrate {
		version, noChange, err := migrations.Up(cfg.PG.URL)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - migrations.Up: %w", err))
		}
		if !noChange {
			l.Info("app - Run - migrated to version %d", version)
		}
	}

	// Repository

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	// images
	images, err := newImageStore(ctx, cfg, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newImageStore: %w", err))
	}

	catalog := persistent.NewCachedCatalogRepo(
		persistent.NewCatalogRepo(pg),
		cfg.Recommendation.CatalogCacheSize,
		cfg.Recommendation.CatalogCacheTTL,
	)

	// AI
	generator, err := newGenerator(ctx, cfg, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newGenerator: %w", err))
	}

	policy := resilient.Policy{
		Timeout:    cfg.AI.Timeout,
		MaxRetries: cfg.AI.MaxRetries,
		BaseDelay:  cfg.AI.RetryBaseDelay,
		MaxDelay:   cfg.AI.RetryMaxDelay,
	}

	transformer := resilient.NewTransformer(
		gemini.NewTransformer(generator, images, processor.New(), gemini.TransformerConfig{
			Model:         cfg.AI.ImageModel,
			MaxInputBytes: cfg.AI.InputMaxBytes,
			MaxSide:       cfg.AI.InputMaxSide,
			Label:         cfg.AI.LabelGenerated,
		}),
		policy,
		l,
	)
	planner := resilient.NewPlanner(gemini.NewPlanner(generator, cfg.AI.TextModel), policy, l)

	// Use-Case

	// transformation use-case
	transformationUseCase := transformation.New(
		images,
		persistent.NewTransformationRepo(pg),
		persistent.NewTransformationOutboxRepo(pg),
		pg,
		transformer,
		l,
		transformation.Events(cfg.Kafka.Enabled),
		transformation.MaxReconcileAttempts(cfg.KafkaController.MaxReconcileAttempts),
		transformation.OutboxRetention(cfg.OutboxRelay.Retention),
	)

	// recommendation use-case
	recommendationUseCase := recommendation.New(persistent.NewGoalProfileRepo(pg), catalog, planner, l)

	// Background reconciliation
	var (
		outboxRelayWorker *outbox.OutboxRelay
		kafkaController   *kafkactrl.KafkaController
	)

	if cfg.Kafka.Enabled {
		// Kafka Producer
		kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
		}

		// Outbox Relay Worker
		outboxRelayWorker = outbox.New(
			transformationUseCase,
			infrakafka.NewEventProducer(kafkaProducer, cfg.Kafka.Topic),
			l,
			cfg.OutboxRelay.PollInterval,
			cfg.OutboxRelay.CleanupInterval,
			cfg.OutboxRelay.MarkFailedInterval,
			cfg.OutboxRelay.ProcessBatchTimeout,
			cfg.OutboxRelay.BatchSize,
			cfg.OutboxRelay.MaxRetries,
		)

		// Kafka Consumer
		kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
		}

		// Kafka as Controller
		kafkaController = kafkactrl.New(
			transformationUseCase,
			infrakafka.NewEventConsumer(kafkaConsumer),
			l,
			cfg.KafkaController.CommitTimeout,
			cfg.KafkaController.ProcessTimeout,
			cfg.KafkaController.RetryDelay,
			cfg.KafkaController.MaxReconcileAttempts,
			cfg.KafkaController.Workers,
		)
	}

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.ReadTimeout(cfg.HTTP.ReadTimeout),
		httpserver.WriteTimeout(cfg.SyncAIBudget()+_writeTimeoutSlack),
		httpserver.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		httpserver.BodyLimit(int(cfg.ImageStore.MaxUploadBytes)+1<<20),
	)
	restapi.NewRouter(
		httpServer.App,
		cfg,
		pg,
		identity.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		transformationUseCase,
		recommendationUseCase,
		l,
	)

	// Start Components
	if outboxRelayWorker != nil {
		err = outboxRelayWorker.Start(ctx)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - outboxRelayWorker.Start: %w", err))
		}
	}
	if kafkaController != nil {
		err = kafkaController.Start(ctx)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
		}
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	if outboxRelayWorker != nil {
		orlShutdownCtx, orlShutdownCancel := context.WithTimeout(ctx, cfg.OutboxRelay.ShutdownTimeout)
		defer orlShutdownCancel()
		err = outboxRelayWorker.Shutdown(orlShutdownCtx)
		if err != nil {
			l.Error(fmt.Errorf("app - Run - outboxRelayWorker.Shutdown: %w", err))
		}
	}

	if kafkaController != nil {
		kcShutdownCtx, kcShutdownCancel := context.WithTimeout(ctx, cfg.KafkaController.ShutdownTimeout)
		defer kcShutdownCancel()
		err = kafkaController.Shutdown(kcShutdownCtx)
		if err != nil {
			l.Error(fmt.Errorf("app - Run - kafkaController.Shutdown: %w", err))
		}
	}
}

func newImageStore(ctx context.Context, cfg *config.Config, l logger.Interface) (repo.ImageStore, error) {
	if cfg.ImageStore.Backend != "s3" {
		store, err := persistent.NewDiskImageStore(cfg.ImageStore.DiskRoot)
		if err != nil {
			return nil, fmt.Errorf("persistent.NewDiskImageStore: %w", err)
		}
		l.Info("app - Run - images on disk under %s", store.Root())

		return store, nil
	}

	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()

	s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, s3client.Region(cfg.S3.Region))
	if err != nil {
		return nil, fmt.Errorf("s3client.New: %w", err)
	}

	if err := s3c.EnsureBucket(s3Ctx, cfg.S3.Bucket); err != nil {
		return nil, fmt.Errorf("s3c.EnsureBucket: %w", err)
	}
	l.Info("app - Run - images in bucket %s", cfg.S3.Bucket)

	return persistent.NewS3ImageStore(s3c, cfg.S3.Bucket), nil
}

// newGenerator falls back to gemini.Disabled without an API key, so every AI
// call takes the degraded path.
func newGenerator(ctx context.Context, cfg *config.Config, l logger.Interface) (gemini.Generator, error) {
	if cfg.AI.APIKey == "" {
		l.Warn("app - Run - AI_API_KEY is not set, transformations and plans will be degraded")
		return gemini.Disabled{}, nil
	}

	client, err := pkggemini.New(ctx, cfg.AI.APIKey,
		pkggemini.BaseURL(cfg.AI.BaseURL),
		pkggemini.Timeout(cfg.AI.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("pkggemini.New: %w", err)
	}

	return client.Client.Models, nil
}
