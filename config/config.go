package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP            HTTP
		Log             Log
		PG              PG
		ImageStore      ImageStore
		S3              S3
		AI              AI
		Recommendation  Recommendation
		Auth            Auth
		OutboxRelay     OutboxRelay
		Kafka           Kafka
		KafkaController KafkaController
		Swagger         Swagger
		Metrics         Metrics
	}

	HTTP struct {
		Port            string        `env:"HTTP_PORT,required"`
		UsePreforkMode  bool          `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}

	PG struct {
		PoolMax     int    `env:"PG_POOL_MAX" envDefault:"10"`
		URL         string `env:"PG_URL,required"`
		AutoMigrate bool   `env:"PG_AUTO_MIGRATE" envDefault:"true"`
	}

	ImageStore struct {
		Backend        string `env:"IMAGE_STORE_BACKEND" envDefault:"disk"` // disk | s3
		DiskRoot       string `env:"IMAGE_STORE_DISK_ROOT" envDefault:"./data"`
		MaxUploadBytes int64  `env:"IMAGE_STORE_MAX_UPLOAD_BYTES" envDefault:"10485760"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT"`
		AccessKey      string        `env:"S3_ACCESS_KEY"`
		SecretKey      string        `env:"S3_SECRET_KEY"`
		Bucket         string        `env:"S3_BUCKET"`
		Region         string        `env:"S3_REGION" envDefault:"us-east-1"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	// AI without an API key runs every request through the degraded path.
	AI struct {
		APIKey         string        `env:"AI_API_KEY"`
		BaseURL        string        `env:"AI_BASE_URL"`
		ImageModel     string        `env:"AI_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image-preview"`
		TextModel      string        `env:"AI_TEXT_MODEL" envDefault:"gemini-2.5-flash"`
		Timeout        time.Duration `env:"AI_TIMEOUT" envDefault:"60s"` // one attempt
		MaxRetries     int           `env:"AI_MAX_RETRIES" envDefault:"0"`
		RetryBaseDelay time.Duration `env:"AI_RETRY_BASE_DELAY" envDefault:"500ms"`
		RetryMaxDelay  time.Duration `env:"AI_RETRY_MAX_DELAY" envDefault:"5s"`
		InputMaxBytes  int64         `env:"AI_INPUT_MAX_BYTES" envDefault:"10485760"`
		InputMaxSide   int           `env:"AI_INPUT_MAX_SIDE" envDefault:"1024"`
		LabelGenerated bool          `env:"AI_LABEL_GENERATED" envDefault:"true"`
	}

	Recommendation struct {
		CatalogCacheSize int           `env:"CATALOG_CACHE_SIZE" envDefault:"16"`
		CatalogCacheTTL  time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	}

	Auth struct {
		JWTSecret string        `env:"AUTH_JWT_SECRET"`
		Issuer    string        `env:"AUTH_JWT_ISSUER" envDefault:"fitness-center"`
		TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
	}

	Kafka struct {
		Enabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
		Brokers []string `env:"KAFKA_BROKERS"`
		GroupID string   `env:"KAFKA_GROUP_ID" envDefault:"fitness-reconciler"`
		Topic   string   `env:"KAFKA_TOPIC" envDefault:"transformations"`
	}

	OutboxRelay struct {
		PollInterval        time.Duration `env:"OUTBOX_RELAY_POLL_INTERVAL" envDefault:"2s"`
		MarkFailedInterval  time.Duration `env:"OUTBOX_RELAY_MARK_FAILED_INTERVAL" envDefault:"2m"`
		CleanupInterval     time.Duration `env:"OUTBOX_RELAY_CLEANUP_INTERVAL" envDefault:"24h"`
		Retention           time.Duration `env:"OUTBOX_RELAY_RETENTION" envDefault:"24h"`
		ProcessBatchTimeout time.Duration `env:"OUTBOX_RELAY_PROCESS_BATCH_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout     time.Duration `env:"OUTBOX_RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		BatchSize           int           `env:"OUTBOX_RELAY_BATCH_SIZE" envDefault:"100"`
		MaxRetries          int           `env:"OUTBOX_RELAY_MAX_RETRIES" envDefault:"3"`
	}

	KafkaController struct {
		CommitTimeout        time.Duration `env:"KAFKA_CONTROLLER_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout       time.Duration `env:"KAFKA_CONTROLLER_PROCESS_TIMEOUT" envDefault:"3m"` // one RetryReconcile, AI call included
		RetryDelay           time.Duration `env:"KAFKA_CONTROLLER_RETRY_DELAY" envDefault:"30s"`    // multiplied by the attempt number
		MaxReconcileAttempts int           `env:"RECONCILE_MAX_ATTEMPTS" envDefault:"3"`
		Workers              int           `env:"KAFKA_CONTROLLER_WORKERS" envDefault:"4"`
		ShutdownTimeout      time.Duration `env:"KAFKA_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}

	Metrics struct {
		Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

// SyncAIBudget is the longest a synchronous AI call can take with retries.
func (c *Config) SyncAIBudget() time.Duration {
	attempts := time.Duration(c.AI.MaxRetries + 1)

	return c.AI.Timeout*attempts + c.AI.RetryMaxDelay*time.Duration(c.AI.MaxRetries)
}

func (c *Config) validate() error {
	var errs []error

	switch c.ImageStore.Backend {
	case "disk":
		if c.ImageStore.DiskRoot == "" {
			errs = append(errs, errors.New("IMAGE_STORE_DISK_ROOT is required for the disk backend"))
		}
	case "s3":
		if c.S3.Endpoint == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "" || c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET are required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("IMAGE_STORE_BACKEND must be disk or s3, got %q", c.ImageStore.Backend))
	}

	if c.ImageStore.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("IMAGE_STORE_MAX_UPLOAD_BYTES must be positive"))
	}

	if c.AI.Timeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT must be positive"))
	}
	if c.AI.MaxRetries < 0 {
		errs = append(errs, errors.New("AI_MAX_RETRIES must not be negative"))
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED"))
		}
		if c.KafkaController.Workers <= 0 {
			errs = append(errs, errors.New("KAFKA_CONTROLLER_WORKERS must be positive"))
		}
	}

	return errors.Join(errs...)
}
