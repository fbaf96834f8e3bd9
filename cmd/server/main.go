package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/bgeneto/flux-image-gen/config"
	"github.com/bgeneto/flux-image-gen/pkg/otel"
	"github.com/bgeneto/flux-image-gen/server"
)

func main() {
	configFlag := flag.String("config", "", "configuration file")
	addressFlag := flag.String("address", "", "server address")

	flag.Parse()

	ctx := context.Background()

	if otel.EnableTelemetry {
		if err := otel.Setup(ctx, "flux-image-gen", "1.0.0"); err != nil {
			slog.Error("unable to setup telemetry", "error", err)
			os.Exit(1)
		}
	}

	var cfg *config.Config
	var err error

	if *configFlag != "" {
		cfg, err = config.Parse(*configFlag)
	} else {
		cfg, err = config.FromEnvironment()
	}

	if err != nil {
		slog.Error("unable to load configuration", "error", err)
		os.Exit(1)
	}

	if *addressFlag != "" {
		cfg.Address = *addressFlag
	}

	s, err := server.New(cfg)

	if err != nil {
		slog.Error("unable to create server", "error", err)
		os.Exit(1)
	}

	if err := s.ListenAndServe(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
