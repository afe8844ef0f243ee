// Package delivery fans notification events from the broker out to push, email and SMS providers.
package delivery

//go:generate go run go.uber.org/mock/mockgen -source=./delivery.go -destination=./mocks/delivery_mock.go -package=mocks

import (
	"context"
	"fmt"
	"seva/infras/kafka"
	"seva/infras/otel"
	"seva/internal/domains/notification/model"
	"seva/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	ChannelPush  = "push"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

type Channel interface {
	Name() string
	Deliver(ctx context.Context, event model.Event) error
}

// logChannel records deliveries until a provider is configured for the channel.
type logChannel struct {
	name string
}

func NewLogChannel(name string) Channel {
	return &logChannel{name: name}
}

func (c *logChannel) Name() string {
	return c.name
}

func (c *logChannel) Deliver(_ context.Context, event model.Event) error {
	log.Info().
		Str("channel", c.name).
		Str("recipient_id", event.RecipientID).
		Str("type", string(event.Type)).
		Str("title", event.Title).
		Msg("notification delivered")

	return nil
}

type Dispatcher struct {
	channels []Channel
	otel     otel.Otel
}

func NewDispatcher(otel otel.Otel, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, otel: otel}
}

// Dispatch sends the event through every channel. A failing channel does not stop the others.
func (d *Dispatcher) Dispatch(ctx context.Context, event model.Event) (err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Dispatch")
	defer scope.End()
	defer scope.TraceIfError(err)

	failed := 0

	for _, channel := range d.channels {
		if deliverErr := channel.Deliver(ctx, event); deliverErr != nil {
			failed++

			log.Error().Err(deliverErr).Str("channel", channel.Name()).Str("notification_id", event.ID).Msg("failed to deliver notification")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d channels failed for notification %s", failed, len(d.channels), event.ID)
	}

	return nil
}

// Handler adapts Dispatch to the broker consumer callback.
func (d *Dispatcher) Handler() kafka.Handler {
	return func(ctx context.Context, message kafkaGo.Message) {
		event, err := kafka.Decode[model.Event](message)
		if err != nil {
			log.Error().Err(err).Str("key", string(message.Key)).Msg("dropping undecodable notification event")

			return
		}

		if err := d.Dispatch(ctx, event); err != nil {
			log.Warn().Err(err).Msg("notification dispatch incomplete")
		}
	}
}
