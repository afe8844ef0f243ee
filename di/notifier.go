package di

import (
	"context"
	"seva/config"
	"seva/infras/kafka"
	"seva/infras/otel"
	"seva/internal/domains/notification/delivery"
	"time"

	"github.com/rs/zerolog/log"
)

const flushTimeout = 5 * time.Second

// Notifier consumes notification events and hands them to the delivery channels.
type Notifier struct {
	Config     *config.Config
	Kafka      kafka.Client
	Otel       otel.Otel
	Dispatcher *delivery.Dispatcher
}

// Run blocks until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	topic := n.Config.Kafka.Topics.Notification

	log.Info().Str("topic", topic).Str("group", n.Config.Kafka.ConsumerGroup).Msg("Starting notification consumer.")

	n.Kafka.Consume(ctx, n.Config.Kafka.ConsumerGroup, topic, n.Dispatcher.Handler())

	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := n.Otel.Shutdown(flushCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces.")
	}

	log.Info().Msg("Notification consumer stopped.")
}
