package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	TrustProxy      bool

	// NASA NeoWs catalog configuration.
	NeoWsBaseURL   string
	NeoWsAPIKey    string
	NeoWsTimeout   time.Duration
	NeoWsCacheSize int

	// Kafka impact event publishing and the batch scenario pipeline.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	PipelineEnabled  bool

	BatchSize          int
	BatchFlushInterval time.Duration

	SessionsPerClient int
	MaxSessions       int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	neowsTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NEOWS_TIMEOUT", "10s"))
	if err != nil || neowsTimeout <= 0 {
		return nil, errors.New("invalid NEOWS_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	sessionsPerClient, err := parsePositiveInt("SESSIONS_PER_CLIENT", 8)
	if err != nil {
		return nil, err
	}
	maxSessions, err := parsePositiveInt("MAX_SESSIONS", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		TrustProxy:      os.Getenv("TRUST_PROXY") == "true",

		NeoWsBaseURL:   sharedcfg.EnvOrDefault("NEOWS_BASE_URL", "https://api.nasa.gov/neo/rest/v1"),
		NeoWsAPIKey:    sharedcfg.EnvOrDefault("NEOWS_API_KEY", "DEMO_KEY"),
		NeoWsTimeout:   neowsTimeout,
		NeoWsCacheSize: parseCacheSize(),

		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "impact-scenarios"),
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "impact-events"),
		KafkaGroupID:     sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "impact-sim"),
		PipelineEnabled:  os.Getenv("PIPELINE_ENABLED") == "true",

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		SessionsPerClient: sessionsPerClient,
		MaxSessions:       maxSessions,
	}

	if cfg.NeoWsAPIKey == "" {
		return nil, errors.New("NEOWS_API_KEY is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}
	if cfg.PipelineEnabled {
		if !cfg.KafkaEnabled {
			return nil, errors.New("PIPELINE_ENABLED requires KAFKA_ENABLED")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required when PIPELINE_ENABLED is true")
		}
	}
	if cfg.SessionsPerClient > cfg.MaxSessions {
		return nil, errors.New("SESSIONS_PER_CLIENT must not exceed MAX_SESSIONS")
	}

	return cfg, nil
}

func parseCacheSize() int {
	if s := os.Getenv("NEOWS_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}
