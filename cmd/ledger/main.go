package main

import (
	"context"
	"os"

	"ledger/internal/cli"
	"ledger/internal/plot"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg.DBPath)

	renderer := plot.AsciiRenderer{}
	code := cli.Run(context.Background(), os.Args[1:], store, renderer, cfg, os.Stdin, os.Stdout)

	store.Close()
	os.Exit(code)
}
