package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/tnqbao/charcoal-cms/service"

var tracer = otel.Tracer(instrumentationName)

func newUploadCounter() metric.Int64Counter {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"cms.media.uploads.confirmed",
		metric.WithDescription("Media uploads confirmed and recorded"),
	)
	if err != nil {
		counter, _ = noop.Meter{}.Int64Counter("cms.media.uploads.confirmed")
	}
	return counter
}
