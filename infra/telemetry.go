package infra

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/tnqbao/charcoal-cms/config"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
}

// InitTelemetry installs global tracer and meter providers exporting over OTLP/HTTP.
// Without an endpoint the otel globals stay no-op.
func InitTelemetry(cfg *config.EnvConfig) *Telemetry {
	telemetry := &Telemetry{}
	if cfg.Grafana.OTLPEndpoint == "" {
		return telemetry
	}

	ctx := context.Background()
	res := serviceResource(cfg)

	traceExporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.Grafana.OTLPEndpoint))
	if err != nil {
		log.Printf("OTLP trace exporter disabled: %v", err)
	} else {
		telemetry.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(telemetry.TracerProvider)
	}

	metricExporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.Grafana.OTLPEndpoint))
	if err != nil {
		log.Printf("OTLP metric exporter disabled: %v", err)
	} else {
		telemetry.MeterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(30*time.Second))),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(telemetry.MeterProvider)
		if err := runtime.Start(runtime.WithMeterProvider(telemetry.MeterProvider)); err != nil {
			log.Printf("runtime instrumentation disabled: %v", err)
		}
	}

	return telemetry
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.TracerProvider != nil {
		errs = append(errs, t.TracerProvider.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errs = append(errs, t.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func serviceResource(cfg *config.EnvConfig) *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", cfg.Grafana.ServiceName),
		attribute.String("deployment.environment", cfg.Environment.Mode),
		attribute.String("service.namespace", cfg.Environment.Group),
	)
}
