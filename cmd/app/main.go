package main

import (
	"seva/config"
	"seva/di"
	"seva/helper"
	"seva/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Seva API
// @version 1.0
// @description Booking, assignment and payment API for residential home services.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
