package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		MongoURI:           DefaultMongoURI,
		MongoDatabaseName:  DefaultMongoDatabaseName,
		MongoConnTimeout:   DefaultMongoConnTimeout,
		Port:               DefaultPort,
		RateLimitRequests:  DefaultRateLimitRequests,
		RateLimitWindow:    DefaultRateLimitWindow,
		RequestTimeout:     DefaultRequestTimeout,
		IdempotencyTTL:     DefaultIdempotencyTTL,
		IdempotencyBackend: DefaultIdempotencyBackend,
		MaxRequestSize:     DefaultMaxRequestSize,
		ReadTimeout:        DefaultReadTimeout,
		WriteTimeout:       DefaultWriteTimeout,
		IdleTimeout:        DefaultIdleTimeout,
		ShutdownTimeout:    DefaultShutdownTimeout,
		StoreBackend:       DefaultStoreBackend,
		LockBackend:        DefaultLockBackend,
		LockTTL:            DefaultLockTTL,
		RedisAddr:          DefaultRedisAddr,
		NotifyTransport:    DefaultNotifyTransport,
		NotifyWorkers:      DefaultNotifyWorkers,
		NotifyQueueSize:    DefaultNotifyQueueSize,
		NotifyTimeout:      DefaultNotifyTimeout,
		NotifyMaxAttempts:  DefaultNotifyMaxAttempts,
		SMTPPort:           DefaultSMTPPort,
	}
}

func TestValidate_Defaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() on defaults error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"port out of range", func(c *Config) { c.Port = "70000" }, "Port"},
		{"port not a number", func(c *Config) { c.Port = "http" }, "Port"},
		{"unknown store", func(c *Config) { c.StoreBackend = "postgres" }, "StoreBackend"},
		{"unknown lock", func(c *Config) { c.LockBackend = "etcd" }, "LockBackend"},
		{"unknown transport", func(c *Config) { c.NotifyTransport = "sms" }, "NotifyTransport"},
		{"unknown idempotency backend", func(c *Config) { c.IdempotencyBackend = "disk" }, "IdempotencyBackend"},
		{"bad mongo scheme", func(c *Config) { c.MongoURI = "postgres://localhost" }, "MongoURI"},
		{"redis lock without address", func(c *Config) { c.LockBackend = LockRedis; c.RedisAddr = "" }, "RedisAddr"},
		{"redis idempotency without address", func(c *Config) { c.IdempotencyBackend = IdempotencyRedis; c.RedisAddr = "" }, "RedisAddr"},
		{"short jwt secret", func(c *Config) { c.JWTSecret = "short" }, "JWTSecret"},
		{"zero lock ttl", func(c *Config) { c.LockTTL = 0 }, "LockTTL"},
		{"redis lease shorter than store timeouts", func(c *Config) { c.LockBackend = LockRedis; c.LockTTL = 10 * time.Second }, "ReadTimeout+WriteTimeout"},
		{"mongo lease equal to store timeouts", func(c *Config) { c.LockBackend = LockMongo; c.LockTTL = c.ReadTimeout + c.WriteTimeout }, "ReadTimeout+WriteTimeout"},
		{"zero workers", func(c *Config) { c.NotifyWorkers = 0 }, "NotifyWorkers"},
		{"zero request size", func(c *Config) { c.MaxRequestSize = 0 }, "MaxRequestSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate_MemoryStoreIgnoresMongoURI(t *testing.T) {
	cfg := validConfig()
	cfg.StoreBackend = StoreMemory
	cfg.MongoURI = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil when Mongo is unused", err)
	}
}

func TestValidate_LeaseBound(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		ttl     time.Duration
		wantErr bool
	}{
		{"memory lock has no lease", LockMemory, time.Second, false},
		{"redis default", LockRedis, DefaultLockTTL, false},
		{"mongo default", LockMongo, DefaultLockTTL, false},
		{"redis short lease", LockRedis, 10 * time.Second, true},
		{"mongo short lease", LockMongo, 30 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LockBackend = tt.backend
			cfg.LockTTL = tt.ttl
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUsesBackends(t *testing.T) {
	tests := []struct {
		name        string
		store       string
		lock        string
		idempotency string
		wantMongo   bool
		wantRedis   bool
	}{
		{"all memory", StoreMemory, LockMemory, IdempotencyMemory, false, false},
		{"mongo store", StoreMongo, LockMemory, IdempotencyMemory, true, false},
		{"mongo lock", StoreMemory, LockMongo, IdempotencyMemory, true, false},
		{"redis lock", StoreMemory, LockRedis, IdempotencyMemory, false, true},
		{"redis idempotency", StoreMongo, LockMemory, IdempotencyRedis, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{StoreBackend: tt.store, LockBackend: tt.lock, IdempotencyBackend: tt.idempotency}
			if got := cfg.UsesMongo(); got != tt.wantMongo {
				t.Errorf("UsesMongo() = %v, want %v", got, tt.wantMongo)
			}
			if got := cfg.UsesRedis(); got != tt.wantRedis {
				t.Errorf("UsesRedis() = %v, want %v", got, tt.wantRedis)
			}
		})
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:s3cret@db:27017/hotelbook")
	if strings.Contains(got, "s3cret") || !strings.Contains(got, "***:***@db:27017") {
		t.Errorf("redactMongoURI() = %q", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv(EnvLockTTL, "250ms")
	if got := getEnvDuration(EnvLockTTL, DefaultLockTTL); got.String() != "250ms" {
		t.Errorf("getEnvDuration() = %s, want 250ms", got)
	}

	t.Setenv(EnvLockTTL, "soon")
	if got := getEnvDuration(EnvLockTTL, DefaultLockTTL); got != DefaultLockTTL {
		t.Errorf("getEnvDuration() with junk = %s, want default", got)
	}
}
