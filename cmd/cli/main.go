package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophbooks/internal/buildinfo"
	"github.com/dmitrijs2005/gophbooks/internal/client/cli"
	"github.com/dmitrijs2005/gophbooks/internal/client/config"
	"github.com/dmitrijs2005/gophbooks/internal/filex"
	"github.com/dmitrijs2005/gophbooks/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
