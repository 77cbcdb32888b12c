package config

import (
	"fmt"
	"hotelbook/pkg/client"
	"hotelbook/pkg/logger"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	JWTSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout     time.Duration
	IdempotencyTTL     time.Duration
	IdempotencyBackend string
	MaxRequestSize     int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SeedData     bool
	StoreBackend string
	LockBackend  string
	LockTTL      time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NotifyTransport   string
	NotifyWorkers     int
	NotifyQueueSize   int
	NotifyTimeout     time.Duration
	NotifyMaxAttempts int

	SupportEmail string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	KafkaBookingTopic    string
	KafkaBookingDLQTopic string
	KafkaConsumerGroup   string

	AMQPURL   string
	AMQPQueue string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout:     getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL:     getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		IdempotencyBackend: strings.ToLower(getEnvStr(EnvIdempotencyBackend, DefaultIdempotencyBackend)),
		MaxRequestSize:     getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SeedData:     getEnvBool(EnvSeedData, DefaultSeedData),
		StoreBackend: strings.ToLower(getEnvStr(EnvStoreBackend, DefaultStoreBackend)),
		LockBackend:  strings.ToLower(getEnvStr(EnvLockBackend, DefaultLockBackend)),
		LockTTL:      getEnvDuration(EnvLockTTL, DefaultLockTTL),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		NotifyTransport:   strings.ToLower(getEnvStr(EnvNotifyTransport, DefaultNotifyTransport)),
		NotifyWorkers:     getEnvNum(EnvNotifyWorkers, DefaultNotifyWorkers),
		NotifyQueueSize:   getEnvNum(EnvNotifyQueueSize, DefaultNotifyQueueSize),
		NotifyTimeout:     getEnvDuration(EnvNotifyTimeout, DefaultNotifyTimeout),
		NotifyMaxAttempts: getEnvNum(EnvNotifyMaxAttempts, DefaultNotifyMaxAttempts),

		SupportEmail: getEnvStr(EnvSupportEmail, DefaultSupportEmail),
		SMTPHost:     getEnvStr(EnvSMTPHost, DefaultSMTPHost),
		SMTPPort:     getEnvNum(EnvSMTPPort, DefaultSMTPPort),
		SMTPUsername: getEnvStr(EnvSMTPUsername, ""),
		SMTPPassword: getEnvStr(EnvSMTPPassword, ""),
		SMTPFrom:     getEnvStr(EnvSMTPFrom, DefaultSMTPFrom),

		KafkaBookingTopic:    getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),
		KafkaBookingDLQTopic: getEnvStr(EnvKafkaBookingDLQTopic, DefaultKafkaBookingDLQTopic),
		KafkaConsumerGroup:   getEnvStr(EnvKafkaConsumerGroup, DefaultKafkaConsumerGroup),

		AMQPURL:   getEnvStr(EnvAMQPURL, DefaultAMQPURL),
		AMQPQueue: getEnvStr(EnvAMQPQueue, DefaultAMQPQueue),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

// UsesRedis reports whether any configured backend needs a Redis connection.
func (cfg *Config) UsesRedis() bool {
	return cfg.LockBackend == LockRedis || cfg.IdempotencyBackend == IdempotencyRedis
}

// UsesMongo reports whether any configured backend needs a Mongo connection.
func (cfg *Config) UsesMongo() bool {
	return cfg.StoreBackend == StoreMongo || cfg.LockBackend == LockMongo
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StoreBackend {
	case StoreMongo, StoreMemory:
	default:
		errors = append(errors, fmt.Sprintf("StoreBackend must be one of [mongo, memory], got: %s", cfg.StoreBackend))
	}
	switch cfg.LockBackend {
	case LockMemory, LockMongo, LockRedis:
	default:
		errors = append(errors, fmt.Sprintf("LockBackend must be one of [memory, mongo, redis], got: %s", cfg.LockBackend))
	}
	switch cfg.NotifyTransport {
	case TransportLog, TransportSMTP, TransportKafka, TransportAMQP:
	default:
		errors = append(errors, fmt.Sprintf("NotifyTransport must be one of [log, smtp, kafka, amqp], got: %s", cfg.NotifyTransport))
	}

	if cfg.UsesMongo() {
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
	}
	switch cfg.IdempotencyBackend {
	case IdempotencyMemory, IdempotencyRedis:
	default:
		errors = append(errors, fmt.Sprintf("IdempotencyBackend must be one of [memory, redis], got: %s", cfg.IdempotencyBackend))
	}
	if cfg.UsesRedis() && cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty when a redis backend is selected")
	}

	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 32 {
		errors = append(errors, fmt.Sprintf("JWTSecret must be at least 32 bytes, got: %d", len(cfg.JWTSecret)))
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.LockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("LockTTL must be positive, got: %s", cfg.LockTTL))
	}
	// A leased lock must outlive the overlap read and the save it guards.
	if (cfg.LockBackend == LockMongo || cfg.LockBackend == LockRedis) && cfg.LockTTL <= cfg.ReadTimeout+cfg.WriteTimeout {
		errors = append(errors, fmt.Sprintf("LockTTL (%s) must exceed ReadTimeout+WriteTimeout (%s) for the %s lock backend",
			cfg.LockTTL, cfg.ReadTimeout+cfg.WriteTimeout, cfg.LockBackend))
	}
	if cfg.NotifyTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyTimeout must be positive, got: %s", cfg.NotifyTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.NotifyWorkers <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyWorkers must be positive, got: %d", cfg.NotifyWorkers))
	}
	if cfg.NotifyQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyQueueSize must be positive, got: %d", cfg.NotifyQueueSize))
	}
	if cfg.NotifyMaxAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyMaxAttempts must be positive, got: %d", cfg.NotifyMaxAttempts))
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		errors = append(errors, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %d", cfg.SMTPPort))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"idempotency_backend", cfg.IdempotencyBackend,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"seed_data", cfg.SeedData,
		"store_backend", cfg.StoreBackend,
		"lock_backend", cfg.LockBackend,
		"lock_ttl", cfg.LockTTL,
		"redis_addr", cfg.RedisAddr,
		"notify_transport", cfg.NotifyTransport,
		"notify_workers", cfg.NotifyWorkers,
		"notify_queue_size", cfg.NotifyQueueSize,
		"notify_timeout", cfg.NotifyTimeout,
		"notify_max_attempts", cfg.NotifyMaxAttempts,
		"support_email", cfg.SupportEmail,
		"smtp_host", cfg.SMTPHost,
		"smtp_port", cfg.SMTPPort,
		"smtp_password_set", cfg.SMTPPassword != "",
		"kafka_booking_topic", cfg.KafkaBookingTopic,
		"amqp_queue", cfg.AMQPQueue,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}
