package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

var _ RangeIterator[int, struct{}] = (*rangeIterator[int, struct{}])(nil)

// rangeIterator seeks the start boundary on the first Next and then
// walks the in-order successors. Once exhausted it stays exhausted.
// Mutating the map while iterating stops the iteration as soon as
// the current node is removed.
type rangeIterator[K infra.OrderedKey, V any] struct {
	m       *treeMap[K, V]
	start   *K
	stop    *K
	cur     *bstNode[K, V]
	started bool
	done    bool
}

func (it *rangeIterator[K, V]) Next() bool {
	if it.done {
		return false
	}

	if !it.started {
		it.started = true
		if it.start == nil {
			it.cur = it.m.root.minimum()
		} else {
			it.cur = it.m.findPosition(*it.start)
			if it.cur != nil && it.m.keyCompare(it.cur.key, *it.start) < 0 {
				it.cur = it.cur.succ()
			}
		}
	} else if it.cur != nil {
		if it.cur.removed {
			it.cur = nil
		} else {
			it.cur = it.cur.succ()
		}
	}

	if it.cur == nil || (it.stop != nil && it.m.keyCompare(it.cur.key, *it.stop) >= 0) {
		it.cur = nil
		it.done = true
		return false
	}
	return true
}

func (it *rangeIterator[K, V]) Key() (key K) {
	if it.cur == nil {
		return key
	}
	return it.cur.key
}

func (it *rangeIterator[K, V]) Val() (val V) {
	if it.cur == nil {
		return val
	}
	return it.cur.val
}
