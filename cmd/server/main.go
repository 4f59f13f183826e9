package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"otc_go/internal/app"
	"otc_go/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(bootstrap.Engine)
	if err := srv.Start(ctx, bootstrap.Config.Server.ListenAddr); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("shut down gracefully")
}
