package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/tnqbao/charcoal-cms/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/trace"
)

type LoggerClient struct {
	logger   *slog.Logger
	provider *sdklog.LoggerProvider
}

func InitLoggerClient(cfg *config.EnvConfig) *LoggerClient {
	level := slog.LevelInfo
	if cfg.Environment.Mode == "development" {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	}

	client := &LoggerClient{}
	if cfg.Grafana.OTLPEndpoint != "" {
		exporter, err := otlploghttp.New(context.Background(), otlploghttp.WithEndpoint(cfg.Grafana.OTLPEndpoint))
		if err != nil {
			log.Printf("OTLP log exporter disabled: %v", err)
		} else {
			client.provider = sdklog.NewLoggerProvider(
				sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
				sdklog.WithResource(serviceResource(cfg)),
			)
			global.SetLoggerProvider(client.provider)
			handlers = append(handlers, otelslog.NewHandler(cfg.Grafana.ServiceName, otelslog.WithLoggerProvider(client.provider)))
		}
	}

	client.logger = slog.New(fanoutHandler{handlers: handlers}).With(
		slog.String("service", cfg.Grafana.ServiceName),
		slog.String("env", cfg.Environment.Mode),
	)
	return client
}

// NewNopLogger discards everything. Used by tests and one-shot tools.
func NewNopLogger() *LoggerClient {
	return &LoggerClient{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprintf(format, args...), traceAttrs(ctx)...)
}

func (l *LoggerClient) DebugWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.DebugContext(ctx, fmt.Sprintf(format, args...), traceAttrs(ctx)...)
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprintf(format, args...), traceAttrs(ctx)...)
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
	attrs := traceAttrs(ctx)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.logger.ErrorContext(ctx, fmt.Sprintf(format, args...), attrs...)
}

func (l *LoggerClient) Shutdown(ctx context.Context) error {
	if l.provider == nil {
		return nil
	}
	return l.provider.Shutdown(ctx)
}

func traceAttrs(ctx context.Context) []any {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return []any{
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	}
}

// fanoutHandler writes every record to stdout and, when configured, to the OTLP bridge.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return fanoutHandler{handlers: next}
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return fanoutHandler{handlers: next}
}
