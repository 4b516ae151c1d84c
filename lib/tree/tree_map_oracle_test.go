package tree

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/google/btree"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type oracleItem struct {
	key int
	val int
}

func oracleLess(a, b oracleItem) bool {
	return a.key < b.key
}

func oracleKeys(oracle *btree.BTreeG[oracleItem]) []int {
	keys := make([]int, 0, oracle.Len())
	oracle.Ascend(func(item oracleItem) bool {
		keys = append(keys, item.key)
		return true
	})
	return keys
}

// The google btree is the reference sorted map, every operation
// result must agree with it.
func TestTreeMapAgainstBTree(t *testing.T) {
	type testcase struct {
		kind           RebalanceKind
		isRmBorrowSucc bool
	}
	testcases := lo.FlatMap(allKinds, func(kind RebalanceKind, _ int) []testcase {
		return []testcase{{kind: kind}, {kind: kind, isRmBorrowSucc: true}}
	})
	for _, tc := range testcases {
		name := tc.kind.String()
		if tc.isRmBorrowSucc {
			name += "/borrow succ"
		}
		t.Run(name, func(tt *testing.T) {
			opts := []TreeMapOpt[int, int]{WithTreeMapInvariantCheck[int, int]()}
			if tc.isRmBorrowSucc {
				opts = append(opts, WithTreeMapRemoveBorrowSucc[int, int]())
			}
			m := NewTreeMap[int, int](tc.kind, opts...)
			oracle := btree.NewG[oracleItem](8, oracleLess)

			for i := 0; i < 3000; i++ {
				key := randv2.IntN(500)
				switch randv2.IntN(6) {
				case 0, 1:
					m.Set(key, i)
					oracle.ReplaceOrInsert(oracleItem{key: key, val: i})
				case 2:
					val, err := m.Delete(key)
					item, ok := oracle.Delete(oracleItem{key: key})
					if ok {
						require.NoError(tt, err)
						require.Equal(tt, item.val, val)
					} else {
						require.ErrorIs(tt, err, ErrKeyNotFound)
					}
				case 3:
					val, err := m.Get(key)
					item, ok := oracle.Get(oracleItem{key: key})
					if ok {
						require.NoError(tt, err)
						require.Equal(tt, item.val, val)
					} else {
						require.ErrorIs(tt, err, ErrKeyNotFound)
					}
				case 4:
					p := m.FindGreaterOrEqual(key)
					var (
						expected oracleItem
						found    bool
					)
					oracle.AscendGreaterOrEqual(oracleItem{key: key}, func(item oracleItem) bool {
						expected, found = item, true
						return false
					})
					if !found {
						require.Nil(tt, p)
					} else {
						require.NotNil(tt, p)
						require.Equal(tt, expected.key, p.Key())
						require.Equal(tt, expected.val, p.Val())
					}

					p = m.FindLessOrEqual(key)
					found = false
					oracle.DescendLessOrEqual(oracleItem{key: key}, func(item oracleItem) bool {
						expected, found = item, true
						return false
					})
					if !found {
						require.Nil(tt, p)
					} else {
						require.NotNil(tt, p)
						require.Equal(tt, expected.key, p.Key())
					}
				case 5:
					stop := key + randv2.IntN(50)
					expected := make([]int, 0, 50)
					oracle.AscendRange(oracleItem{key: key}, oracleItem{key: stop}, func(item oracleItem) bool {
						expected = append(expected, item.key)
						return true
					})
					require.Equal(tt, expected, rangeKeys[int, int](m.FindRange(&key, &stop)))
				}
				require.Equal(tt, int64(oracle.Len()), m.Len())
			}

			require.Equal(tt, oracleKeys(oracle), m.Keys())
			if item, ok := oracle.Min(); ok {
				require.Equal(tt, item.key, m.First().Key())
			}
			if item, ok := oracle.Max(); ok {
				require.Equal(tt, item.key, m.Last().Key())
			}
			require.Equal(tt, lo.Reverse(oracleKeys(oracle)), reverseKeys(m))
		})
	}
}

func reverseKeys(m SortedMap[int, int]) []int {
	keys := make([]int, 0, m.Len())
	m.ReverseForeach(func(_ int64, key int, _ int) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func TestTreeMapSortedSequenceShuffled(t *testing.T) {
	keys := lo.Shuffle(lo.Range(1024))
	for _, kind := range allKinds {
		t.Run(kind.String(), func(tt *testing.T) {
			m := NewTreeMap[int, string](kind)
			for _, key := range keys {
				m.Set(key, "")
			}
			require.Equal(tt, lo.Range(1024), m.Keys())
			require.NoError(tt, ValidateAll[int, string](m))

			evens := lo.Filter(keys, func(key int, _ int) bool {
				return key%2 == 0
			})
			for _, key := range evens {
				_, err := m.Delete(key)
				require.NoError(tt, err)
			}
			require.Equal(tt, lo.Filter(lo.Range(1024), func(key int, _ int) bool {
				return key%2 == 1
			}), m.Keys())
			require.NoError(tt, ValidateAll[int, string](m))
		})
	}
}
