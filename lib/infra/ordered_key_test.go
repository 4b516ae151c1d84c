package infra

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyCompare(t *testing.T) {
	testcases := []struct {
		name     string
		i, j     int
		expected int64
	}{
		{"equal", 7, 7, 0},
		{"less", 3, 7, -1},
		{"greater", 9, 7, 1},
		{"negative", -9, -7, -1},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			require.Equal(tt, tc.expected, KeyCompare(tc.i, tc.j))
			require.Equal(tt, -tc.expected, ReverseKeyCompare[int](nil)(tc.i, tc.j))
		})
	}
}

func TestKeyCompare_String(t *testing.T) {
	require.Equal(t, int64(-1), KeyCompare("abc", "abd"))
	require.Equal(t, int64(1), KeyCompare("b", "abc"))
	require.Equal(t, int64(0), KeyCompare("", ""))
}

func TestKeyCompare_Float(t *testing.T) {
	require.Equal(t, int64(-1), KeyCompare(1.5, 1.75))
	require.Equal(t, int64(1), ReverseKeyCompare(KeyCompare[float64])(1.5, 1.75))
}
