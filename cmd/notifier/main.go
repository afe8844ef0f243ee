package main

import (
	"context"
	"os"
	"os/signal"
	"seva/config"
	"seva/di"
	"seva/shared/logger"
	"syscall"
)

func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	di.InitializeNotifier().Run(ctx)
}
