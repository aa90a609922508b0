package logging

import (
	"context"
	"log/slog"
	"os"
)

type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module labels log records with the emitting subsystem.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type ctxKey int

const requestIDKey ctxKey = iota

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

type Config struct {
	Environment  Environment
	Level        slog.Level
	Service      ServiceInfo
	Module       Module
	GCPProjectID string
}

// NewLogger builds the process logger. Dev environments get readable
// text output, everything else structured JSON.
func NewLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	var inner slog.Handler
	if cfg.Environment == EnvDev {
		inner = slog.NewTextHandler(os.Stdout, opts)
	} else {
		inner = slog.NewJSONHandler(os.Stdout, opts)
	}

	handler := &contextHandler{
		inner:        inner,
		gcpProjectID: cfg.GCPProjectID,
	}

	logger := slog.New(handler).With(
		slog.String("service", cfg.Service.Name),
		slog.String("version", cfg.Service.Version),
		slog.String("module", string(cfg.Module)),
	)
	if cfg.Service.Revision != "" {
		logger = logger.With(slog.String("revision", cfg.Service.Revision))
	}

	return logger
}

// contextHandler enriches records with request-scoped attributes taken
// from the context.
type contextHandler struct {
	inner        slog.Handler
	gcpProjectID string
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if requestID := RequestID(ctx); requestID != "" {
		record.AddAttrs(slog.String("request_id", requestID))
	}
	if attrs := gcpTraceAttrs(ctx, h.gcpProjectID); len(attrs) > 0 {
		record.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{
		inner:        h.inner.WithAttrs(attrs),
		gcpProjectID: h.gcpProjectID,
	}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{
		inner:        h.inner.WithGroup(name),
		gcpProjectID: h.gcpProjectID,
	}
}
