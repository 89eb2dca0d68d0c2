package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fyndrai/fyndr/internal/client/cli"
	"github.com/fyndrai/fyndr/internal/client/config"
	"github.com/fyndrai/fyndr/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
