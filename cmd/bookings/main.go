package main

import (
	"context"
	"time"

	authhandler "hotelbook/internal/auth/handler"
	"hotelbook/internal/bookings/handler"
	"hotelbook/internal/bookings/lock"
	"hotelbook/internal/bookings/repository"
	"hotelbook/internal/bookings/service"
	"hotelbook/internal/bookings/validator"
	"hotelbook/internal/health"
	hotelrepository "hotelbook/internal/hotels/repository"
	"hotelbook/internal/hotels/seed"
	"hotelbook/internal/notifications"
	"hotelbook/pkg/app"
	"hotelbook/pkg/auth"
	"hotelbook/pkg/config"
	"hotelbook/pkg/contracts"
	"hotelbook/pkg/kafka"
	kafka_config "hotelbook/pkg/kafka/config"
	kafka_middleware "hotelbook/pkg/kafka/middleware"
)

const (
	ServiceName   = "bookings"
	notifyBackoff = 500 * time.Millisecond
)

func main() {
	cfg := config.Load(ServiceName)
	if cfg.JWTSecret == "" {
		cfg.Log.Fatal("JWT_SECRET is required to verify bearer tokens")
	}
	if cfg.UsesMongo() {
		cfg.SetMongo()
	}
	if cfg.UsesRedis() {
		cfg.SetRedis()
	}

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication()

	hotels := initHotels(cfg)
	notifier := initNotifier(cfg, serverApp)
	bookingService := initServices(cfg, notifier)
	gate := auth.NewJWTAuthenticator(cfg.JWTSecret)

	serverApp.SetApp(cfg,
		initHealth(cfg),
		gate,
		handler.NewBookingHandler(bookingService, gate, cfg.Log),
		authhandler.NewAuthHandler(gate, cfg.Log),
	)

	if cfg.SeedData {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout)
		if _, err := seed.Seed(ctx, hotels, seed.DefaultHotels(), cfg.Log); err != nil {
			cancel()
			cfg.Log.Fatal("Hotel seeding failed", "error", err)
		}
		cancel()
	} else {
		cfg.Log.Info("Hotel seeding disabled")
	}

	serverApp.Run()
}

func initHotels(cfg *config.Config) hotelrepository.HotelRepository {
	if cfg.StoreBackend == config.StoreMongo {
		return hotelrepository.NewMongoHotelRepository(cfg)
	}
	return hotelrepository.NewMemoryHotelRepository()
}

func initServices(cfg *config.Config, notifier notifications.Notifier) service.BookingService {
	bookingService := service.NewBookingService(
		initBookingRepository(cfg),
		initLocker(cfg),
		validator.NewBookingValidator(cfg.Log),
		notifier,
		cfg,
	)

	cfg.Log.Info("Booking service initialized",
		"store_backend", cfg.StoreBackend,
		"lock_backend", cfg.LockBackend,
		"database", cfg.MongoDatabaseName,
	)
	return bookingService
}

func initBookingRepository(cfg *config.Config) repository.BookingRepository {
	if cfg.StoreBackend == config.StoreMongo {
		return repository.NewMongoBookingRepository(cfg)
	}
	cfg.Log.Warn("Using in-memory booking store, bookings are lost on restart")
	return repository.NewMemoryBookingRepository()
}

func initLocker(cfg *config.Config) lock.Locker {
	switch cfg.LockBackend {
	case config.LockMongo:
		return lock.NewMongoLocker(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.LockTTL, cfg.Log)
	case config.LockRedis:
		return lock.NewRedisLocker(cfg.Client.Redis, cfg.LockTTL, cfg.Log)
	default:
		return lock.NewMemoryLocker()
	}
}

// initNotifier builds the configured sender behind a dispatcher and
// registers both for shutdown, dispatcher first so queued bookings still
// reach the transport.
func initNotifier(cfg *config.Config, serverApp *app.Application) notifications.Notifier {
	sender, closeSender := initSender(cfg)

	dispatcher := notifications.NewDispatcher(sender, notifications.DispatcherConfig{
		Workers:     cfg.NotifyWorkers,
		QueueSize:   cfg.NotifyQueueSize,
		Timeout:     cfg.NotifyTimeout,
		MaxAttempts: cfg.NotifyMaxAttempts,
		Backoff:     notifyBackoff,
	}, cfg.Log)

	serverApp.OnShutdown("notification-dispatcher", dispatcher)
	if closeSender != nil {
		serverApp.OnShutdown("notification-sender", contracts.StopFunc(func(context.Context) error {
			return closeSender()
		}))
	}

	cfg.Log.Info("Notification dispatcher started",
		"transport", sender.Name(),
		"workers", cfg.NotifyWorkers,
		"queue_size", cfg.NotifyQueueSize,
	)
	return dispatcher
}

func initSender(cfg *config.Config) (notifications.Sender, func() error) {
	switch cfg.NotifyTransport {
	case config.TransportSMTP:
		sender, err := notifications.NewEmailSender(notifications.SMTPConfigFrom(cfg))
		if err != nil {
			cfg.Log.Fatal("Failed to create SMTP sender", "error", err)
		}
		return sender, nil

	case config.TransportKafka:
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
		}
		producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingTopic, cfg.KafkaBookingDLQTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		return notifications.NewKafkaSender(producer), producer.Close

	case config.TransportAMQP:
		sender := notifications.NewAMQPSender(cfg.AMQPURL, cfg.AMQPQueue)
		return sender, sender.Close

	default:
		return notifications.NewLogSender(cfg.Log), nil
	}
}

func initHealth(cfg *config.Config) *health.HealthHandler {
	h := health.NewHealthHandler(cfg.Log)
	if cfg.Client.Mongo != nil {
		h.WithCheck("mongo", cfg.Client.Mongo.Ping)
	}
	if cfg.Client.Redis != nil {
		h.WithCheck("redis", func(ctx context.Context) error {
			return cfg.Client.Redis.Ping(ctx).Err()
		})
	}
	return h
}
