// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"seva/config"
	"seva/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger writes human readable output until the configuration is known.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// SetLogLevel applies the configured level and, outside development, switches to JSON lines
// tagged with the service name so they can be shipped as is.
func SetLogLevel(config *config.Config) {
	SetOutput(config, os.Stdout)

	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || config.Server.LogLevel == "" {
		level = defaultLevel
		log.Info().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Info().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}

func SetOutput(config *config.Config, out io.Writer) {
	var writer io.Writer = out
	if config.Server.Env == constant.ServerEnvDevelopment || config.Server.Env == "" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Str("service", config.App.Name).Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
