package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectTreeStats(t *testing.T, reader sdkmetric.Reader) map[string]int64 {
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))

	res := make(map[string]int64, 8)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, m.Name)
			for _, dp := range sum.DataPoints {
				res[m.Name] += dp.Value
				kind, ok := dp.Attributes.Value(attribute.Key("xtree.rebalance"))
				require.True(t, ok)
				require.NotEmpty(t, kind.AsString())
			}
		}
	}
	return res
}

func TestTreeStats_RedBlack(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()

	m := NewRBTreeMap[int, int](
		WithTreeMapStats[int, int]("rb"),
		WithTreeMapMeterProvider[int, int](mp),
	)
	m.Set(52, 1)
	m.Set(47, 1)
	m.Set(3, 1)

	stats := collectTreeStats(t, reader)
	require.Equal(t, int64(1), stats["xtree.rotations"])
	require.Equal(t, int64(1), stats["xtree.restructures"])
	require.Equal(t, int64(3), stats["xtree.recolors"])
	require.Equal(t, int64(3), stats["xtree.size"])
	require.Equal(t, int64(0), stats["xtree.splays"])

	_, err := m.Delete(3)
	require.NoError(t, err)
	m.Release()
	stats = collectTreeStats(t, reader)
	require.Equal(t, int64(0), stats["xtree.size"])
}

func TestTreeStats_Splay(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()

	m := NewSplayTreeMap[int, int](
		WithTreeMapStats[int, int](""),
		WithTreeMapMeterProvider[int, int](mp),
	)
	for i := 0; i < 8; i++ {
		m.Set(i, i)
	}
	_, err := m.Get(0)
	require.NoError(t, err)

	stats := collectTreeStats(t, reader)
	require.Equal(t, int64(9), stats["xtree.splays"])
	require.Equal(t, int64(8), stats["xtree.size"])
	require.Positive(t, stats["xtree.rotations"])
	require.Equal(t, int64(0), stats["xtree.recolors"])
}

func TestTreeStats_Disabled(t *testing.T) {
	m := NewRBTreeMap[int, int]().(*treeMap[int, int])
	require.Nil(t, m.stats)
	for i := 0; i < 64; i++ {
		m.Set(i, i)
	}
	require.Equal(t, int64(64), m.Len())

	var stats *treeStats
	require.NotPanics(t, func() {
		stats.IncreaseRotations()
		stats.IncreaseRestructures()
		stats.IncreaseSplays()
		stats.IncreaseRecolors()
		stats.RecordSize(1)
	})
}
