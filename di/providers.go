package di

import (
	"seva/infras/otel"
	"seva/internal/domains/notification/delivery"
	"seva/permissions"

	"github.com/rs/zerolog/log"
)

func providePermissions() *permissions.PermissionData {
	data, err := permissions.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load route permissions")
	}

	return data
}

// provideDispatcher wires every delivery channel. Channels log until a provider is configured.
func provideDispatcher(otel otel.Otel) *delivery.Dispatcher {
	return delivery.NewDispatcher(otel,
		delivery.NewLogChannel(delivery.ChannelPush),
		delivery.NewLogChannel(delivery.ChannelEmail),
		delivery.NewLogChannel(delivery.ChannelSMS),
	)
}
