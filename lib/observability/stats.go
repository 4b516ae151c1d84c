package observability

import (
	"context"
	"runtime"
	"strings"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	AppStatsName = "xtree/app"
)

type appStats struct {
	ctx              context.Context
	shutdownCallback ShutdownCallback
	goroutines       metric.Int64ObservableUpDownCounter
	processes        metric.Int64ObservableUpDownCounter
}

func (stats *appStats) waitForShutdown() {
	if stats == nil || stats.shutdownCallback == nil {
		return
	}
	go func() {
		<-stats.ctx.Done()
		_ = stats.shutdownCallback(context.Background())
	}()
}

// StartAppStats records the go runtime stats next to the tree stats.
// The callback (if any) is invoked once ctx is done.
func StartAppStats(ctx context.Context, name string, mp metric.MeterProvider, callback ShutdownCallback) error {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	builder := &strings.Builder{}
	builder.WriteString(AppStatsName)
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	meter := mp.Meter(
		builder.String(),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)

	stats := &appStats{
		ctx:              ctx,
		shutdownCallback: callback,
		goroutines: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"app.core.goroutines",
			metric.WithDescription(`The application goroutines' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.NumGoroutine()))
				return nil
			}),
		)),
		processes: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"app.core.processes",
			metric.WithDescription(`The application processes' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.GOMAXPROCS(0)))
				return nil
			}),
		)),
	}
	if err := otelruntime.Start(otelruntime.WithMeterProvider(mp)); err != nil {
		return err
	}
	stats.waitForShutdown()
	return nil
}
