package main

import (
	"context"
	"log"
	"os"

	"github.com/fyndrai/fyndr/internal/logging"
	"github.com/fyndrai/fyndr/internal/server"
	"github.com/fyndrai/fyndr/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
