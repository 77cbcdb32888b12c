package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"hotelbook/internal/notifications"
	"hotelbook/pkg/config"
	"hotelbook/pkg/kafka"
	kafka_config "hotelbook/pkg/kafka/config"
	kafka_middleware "hotelbook/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	cfg.Log.Info("Kafka configuration loaded", kafkaCfg.LogValues()...)

	sender := initSender(cfg)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.KafkaBookingTopic,
		cfg.KafkaConsumerGroup,
		cfg.KafkaBookingDLQTopic,
		notifications.NewBookingEventHandler(sender, cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting booking notifier",
		"topic", cfg.KafkaBookingTopic,
		"group", cfg.KafkaConsumerGroup,
		"transport", sender.Name(),
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Booking notifier stopped")
}

// initSender mails the support address unless NOTIFY_TRANSPORT=log asks
// for a dry run.
func initSender(cfg *config.Config) notifications.Sender {
	if cfg.NotifyTransport == config.TransportLog {
		return notifications.NewLogSender(cfg.Log)
	}
	sender, err := notifications.NewEmailSender(notifications.SMTPConfigFrom(cfg))
	if err != nil {
		cfg.Log.Fatal("Failed to create SMTP sender", "error", err)
	}
	return sender
}
