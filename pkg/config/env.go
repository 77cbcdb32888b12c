package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSeedData     = "SEED_DATA"
	EnvStoreBackend = "STORE_BACKEND"
	EnvLockBackend  = "LOCK_BACKEND"
	EnvLockTTL      = "LOCK_TTL"

	EnvIdempotencyBackend = "IDEMPOTENCY_BACKEND"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvNotifyTransport   = "NOTIFY_TRANSPORT"
	EnvNotifyWorkers     = "NOTIFY_WORKERS"
	EnvNotifyQueueSize   = "NOTIFY_QUEUE_SIZE"
	EnvNotifyTimeout     = "NOTIFY_TIMEOUT"
	EnvNotifyMaxAttempts = "NOTIFY_MAX_ATTEMPTS"

	EnvSupportEmail = "SUPPORT_EMAIL"
	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUsername = "SMTP_USERNAME"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvSMTPFrom     = "SMTP_FROM"

	EnvKafkaBookingTopic    = "KAFKA_BOOKING_TOPIC"
	EnvKafkaBookingDLQTopic = "KAFKA_BOOKING_DLQ_TOPIC"
	EnvKafkaConsumerGroup   = "KAFKA_CONSUMER_GROUP"

	EnvAMQPURL   = "AMQP_URL"
	EnvAMQPQueue = "AMQP_QUEUE"
)
