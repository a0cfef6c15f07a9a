package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tikbook/internal/app"
	"github.com/dmitrijs2005/tikbook/internal/buildinfo"
	"github.com/dmitrijs2005/tikbook/internal/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	a, err := app.NewApp(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	a.Run(ctx)
}
