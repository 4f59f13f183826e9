package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"otc_go/internal/cli"
	"otc_go/internal/client"
	"otc_go/internal/infra"
	"otc_go/internal/infra/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	// The CLI works without a config file; the settings store and env
	// variables cover the essentials.
	defaultAPIURL := client.DefaultAPIURL
	if cfg, err := infra.LoadConfig(*configPath); err == nil {
		slog.SetDefault(infra.NewLogger(cfg))
		if cfg.Client.APIURL != "" {
			defaultAPIURL = cfg.Client.APIURL
		}
	}

	store, err := storage.NewStore()
	if err != nil {
		slog.Error("failed to open settings store", slog.Any("error", err))
		os.Exit(1)
	}

	iface, err := cli.New(store, defaultAPIURL, os.Stdin, os.Stdout)
	if err != nil {
		slog.Error("failed to initialize CLI", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	iface.Run(ctx)
}
