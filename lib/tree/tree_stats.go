package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	TreeMapStatsName = "xtree/treemap"
)

// treeStats records the restructuring work of a tree.
// A nil *treeStats is valid and records nothing.
type treeStats struct {
	attrs        metric.MeasurementOption
	rotations    metric.Int64Counter
	restructures metric.Int64Counter
	splays       metric.Int64Counter
	recolors     metric.Int64Counter
	size         metric.Int64UpDownCounter
}

func (stats *treeStats) IncreaseRotations() {
	if stats == nil {
		return
	}
	stats.rotations.Add(context.Background(), 1, stats.attrs)
}

func (stats *treeStats) IncreaseRestructures() {
	if stats == nil {
		return
	}
	stats.restructures.Add(context.Background(), 1, stats.attrs)
}

func (stats *treeStats) IncreaseSplays() {
	if stats == nil {
		return
	}
	stats.splays.Add(context.Background(), 1, stats.attrs)
}

func (stats *treeStats) IncreaseRecolors() {
	if stats == nil {
		return
	}
	stats.recolors.Add(context.Background(), 1, stats.attrs)
}

func (stats *treeStats) RecordSize(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.size.Add(context.Background(), delta, stats.attrs)
}

func newTreeStats(name string, mp metric.MeterProvider, kind RebalanceKind) *treeStats {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(fmt.Sprintf("%s/%s", TreeMapStatsName, name))
	return &treeStats{
		attrs: metric.WithAttributeSet(attribute.NewSet(
			attribute.String("xtree.rebalance", kind.String()),
		)),
		rotations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.rotations",
			metric.WithDescription("The number of single rotations."),
		)),
		restructures: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.restructures",
			metric.WithDescription("The number of trinode restructurings."),
		)),
		splays: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.splays",
			metric.WithDescription("The number of nodes splayed to the root."),
		)),
		recolors: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.recolors",
			metric.WithDescription("The number of red-black color flips."),
		)),
		size: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"xtree.size",
			metric.WithDescription("The number of elements in the tree."),
		)),
	}
}
