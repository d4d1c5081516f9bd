package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophshop/internal/buildinfo"
	"github.com/dmitrijs2005/gophshop/internal/client/cli"
	"github.com/dmitrijs2005/gophshop/internal/client/config"
	"github.com/dmitrijs2005/gophshop/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
