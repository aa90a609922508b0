package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/soratobu/departure-planner/internal/observability/logging"
)

type Config struct {
	ServiceInfo   logging.ServiceInfo
	Environment   logging.Environment
	LogLevel      slog.Level
	GCPProjectID  string
	SamplingRate  float64
	DefaultModule logging.Module
}

// Resources holds the process-wide telemetry handles created by Init.
type Resources struct {
	logger        *slog.Logger
	shutdownFuncs []func(context.Context) error
}

func (r *Resources) Logger() *slog.Logger {
	return r.logger
}

func (r *Resources) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range r.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Init wires up logging, metrics and tracing. The exporter backend is
// platform dependent: OTLP over HTTP when OTEL_EXPORTER_OTLP_ENDPOINT
// is configured, Cloud Trace and Cloud Monitoring under the gcloud
// build tag. Without a configured backend the providers run without
// export so instrumentation stays cheap no-ops.
func Init(ctx context.Context, cfg Config) (*Resources, error) {
	logger := logging.NewLogger(logging.Config{
		Environment:  cfg.Environment,
		Level:        cfg.LogLevel,
		Service:      cfg.ServiceInfo,
		Module:       cfg.DefaultModule,
		GCPProjectID: cfg.GCPProjectID,
	})

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceInfo.Name),
		attribute.String("service.version", cfg.ServiceInfo.Version),
		attribute.String("deployment.environment", string(cfg.Environment)),
	)

	resources := &Resources{logger: logger}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if err := initTracing(ctx, cfg, res, resources); err != nil {
		return nil, err
	}
	if err := initMetrics(ctx, cfg, res, resources); err != nil {
		return nil, err
	}

	return resources, nil
}

func initTracing(ctx context.Context, cfg Config, res *resource.Resource, resources *Resources) error {
	samplingRate := cfg.SamplingRate
	if samplingRate <= 0 {
		samplingRate = 1.0
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(samplingRate))),
	}

	exporter, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return err
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	resources.shutdownFuncs = append(resources.shutdownFuncs, tp.Shutdown)

	return nil
}

func initMetrics(ctx context.Context, cfg Config, res *resource.Resource, resources *Resources) error {
	opts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}

	exporter, err := newMetricExporter(ctx, cfg)
	if err != nil {
		return err
	}
	if exporter != nil {
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(30*time.Second)),
		))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	resources.shutdownFuncs = append(resources.shutdownFuncs, mp.Shutdown)

	return nil
}
