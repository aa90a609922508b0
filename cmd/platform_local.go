//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/infra/notifier"
	"github.com/soratobu/departure-planner/internal/observability"
	"github.com/soratobu/departure-planner/internal/observability/logging"
)

func initNotifier(_ context.Context, cfg *config.Config) (notifier.Notifier, func() error, error) {
	n := notifier.NewPushGatewayClient(cfg.Notifier)

	slog.Info("notifier initialized",
		slog.String("type", "push_gateway"),
		slog.String("url", cfg.Notifier.PushGatewayURL),
		slog.String("queue", cfg.Notifier.QueueName),
	)

	return n, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "departure-planner"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: logging.Module("departure-planner"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
