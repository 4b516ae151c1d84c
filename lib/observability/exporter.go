package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type ShutdownCallback func(ctx context.Context) error

// NewConsoleMeterProvider pushes the tree stats periodically to the
// stdout exporter. Serves for test/dev environment.
func NewConsoleMeterProvider(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*metric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	))), nil
}

// NewPrometheusMeterProvider serves the tree stats to the prometheus
// registerer (default registerer if none is set), fetched by HTTP in
// the product environment.
func NewPrometheusMeterProvider(opts ...prometheus.Option) (*metric.MeterProvider, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(exporter)), nil
}

// InstallGlobal makes mp the global meter provider, the tree maps
// created with stats but without a meter provider record to it.
func InstallGlobal(mp *metric.MeterProvider) ShutdownCallback {
	otel.SetMeterProvider(mp)
	return mp.Shutdown
}
