package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/imgdrop/internal/buildinfo"
	"github.com/dmitrijs2005/imgdrop/internal/cli"
	"github.com/dmitrijs2005/imgdrop/internal/config"
	"github.com/dmitrijs2005/imgdrop/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, os.Stdin, os.Stdout, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	os.Exit(app.Run(ctx))
}
