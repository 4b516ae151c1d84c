package tree

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

var _ SortedMap[int, struct{}] = (*treeMap[int, struct{}])(nil)

// treeMap is the sorted map on top of the linked binary tree.
// The rebalancer is fixed at construction and invoked after
// each operation.
type treeMap[K infra.OrderedKey, V any] struct {
	linkedTree[K, V]
	rebalancer     rebalancer[K, V]
	kind           RebalanceKind
	isRmBorrowSucc bool
	invariantCheck bool
	statsName      string
	meterProvider  metric.MeterProvider
}

func (m *treeMap[K, V]) keyCompare(k1, k2 K) int64 {
	return infra.KeyCompare[K](k1, k2)
}

func (m *treeMap[K, V]) Kind() RebalanceKind {
	return m.kind
}

// search returns the node with the key, or the last node reached.
// It returns nil only if the tree is empty.
func (m *treeMap[K, V]) search(key K) *bstNode[K, V] {
	for aux := m.root; aux != nil; {
		var next *bstNode[K, V]
		res := m.keyCompare(key, aux.key)
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			next = aux.left
		} else /* greater */ {
			next = aux.right
		}
		if next == nil {
			return aux
		}
		aux = next
	}
	return nil
}

// findPosition searches the key and the access hook is invoked with the
// last node reached, matched or not.
func (m *treeMap[K, V]) findPosition(key K) *bstNode[K, V] {
	x := m.search(key)
	if x != nil {
		m.rebalancer.onAccess(&m.linkedTree, x)
	}
	return x
}

func (m *treeMap[K, V]) Get(key K) (val V, err error) {
	x := m.findPosition(key)
	if x == nil || m.keyCompare(key, x.key) != 0 {
		return val, fmt.Errorf("[xtree] get key(%v), %w", key, ErrKeyNotFound)
	}
	return x.val, nil
}

func (m *treeMap[K, V]) Contains(key K) bool {
	_, err := m.Get(key)
	return err == nil
}

func (m *treeMap[K, V]) Set(key K, val V) {
	_ = m.set(key, val, false)
}

func (m *treeMap[K, V]) SetIfAbsent(key K, val V) error {
	return m.set(key, val, true)
}

func (m *treeMap[K, V]) set(key K, val V, ifNotPresent bool) error {
	if m.root == nil {
		leaf, err := m.addRoot(key, val)
		if err != nil {
			return err
		}
		m.rebalancer.onInsert(&m.linkedTree, leaf)
		m.checkInvariants("set")
		return nil
	}

	x := m.search(key)
	var (
		leaf *bstNode[K, V]
		err  error
	)
	res := m.keyCompare(key, x.key)
	if /* equal */ res == 0 {
		if /* disabled */ ifNotPresent {
			m.rebalancer.onAccess(&m.linkedTree, x)
			return fmt.Errorf("[xtree] set key(%v), %w", key, ErrReplaceDisabled)
		}
		x.val = val
		m.rebalancer.onAccess(&m.linkedTree, x)
		return nil
	} else /* less */ if res < 0 {
		leaf, err = m.addLeft(x, key, val)
	} else /* greater */ {
		leaf, err = m.addRight(x, key, val)
	}
	if err != nil {
		// impossible run to here, search stops at a nil child.
		panic(err)
	}

	m.rebalancer.onInsert(&m.linkedTree, leaf)
	m.checkInvariants("set")
	return nil
}

func (m *treeMap[K, V]) Delete(key K) (val V, err error) {
	x := m.search(key)
	if x == nil {
		return val, fmt.Errorf("[xtree] delete key(%v), %w", key, ErrKeyNotFound)
	}
	if m.keyCompare(key, x.key) != 0 {
		m.rebalancer.onAccess(&m.linkedTree, x)
		return val, fmt.Errorf("[xtree] delete key(%v), %w", key, ErrKeyNotFound)
	}
	return m.deleteNode(x), nil
}

func (m *treeMap[K, V]) DeleteAt(p Position[K, V]) (val V, err error) {
	x, err := m.validate(p)
	if err != nil {
		return val, err
	}
	return m.deleteNode(x), nil
}

func (m *treeMap[K, V]) RemoveMin() (key K, val V, err error) {
	if m.root == nil {
		return key, val, ErrEmptyTree
	}
	x := m.root.minimum()
	key = x.key
	val = m.deleteNode(x)
	return key, val, nil
}

func (m *treeMap[K, V]) RemoveMax() (key K, val V, err error) {
	if m.root == nil {
		return key, val, ErrEmptyTree
	}
	x := m.root.maximum()
	key = x.key
	val = m.deleteNode(x)
	return key, val, nil
}

/*
d1: Z has at most one child, remove it directly, its child
(if any) takes its place.

d2: Z has left and right node.
Find Z's pred (or succ) to replace it. Swap the element only,
then the pred (or succ) owning at most one child is removed
instead, enter d1.

Find pred:

	  |                    |
	  Z                    L
	 / \                  / \
	..  ..  swap(Z, L)   ..  ..
	  \     =========>     \
	   L                    Z
*/
func (m *treeMap[K, V]) deleteNode(z *bstNode[K, V]) V {
	val := z.val
	y := z
	if /* d2 */ z.left != nil && z.right != nil {
		if m.isRmBorrowSucc {
			y = z.right.minimum()
		} else {
			y = z.left.maximum()
		}
		m.replace(z, y.key, y.val)
	}

	/* d1 */
	parent := y.parent
	if _, err := m.remove(y); err != nil {
		// impossible run to here
		panic(err)
	}
	m.rebalancer.onDelete(&m.linkedTree, parent)
	m.checkInvariants("delete")
	return val
}

func (m *treeMap[K, V]) First() Position[K, V] {
	return m.makePosition(m.root.minimum())
}

func (m *treeMap[K, V]) Last() Position[K, V] {
	return m.makePosition(m.root.maximum())
}

func (m *treeMap[K, V]) Before(p Position[K, V]) (Position[K, V], error) {
	x, err := m.validate(p)
	if err != nil {
		return nil, err
	}
	return m.makePosition(x.pred()), nil
}

func (m *treeMap[K, V]) After(p Position[K, V]) (Position[K, V], error) {
	x, err := m.validate(p)
	if err != nil {
		return nil, err
	}
	return m.makePosition(x.succ()), nil
}

func (m *treeMap[K, V]) FindGreaterOrEqual(key K) Position[K, V] {
	x := m.findPosition(key)
	if x != nil && m.keyCompare(x.key, key) < 0 {
		x = x.succ()
	}
	return m.makePosition(x)
}

func (m *treeMap[K, V]) FindGreater(key K) Position[K, V] {
	x := m.findPosition(key)
	if x != nil && m.keyCompare(x.key, key) <= 0 {
		x = x.succ()
	}
	return m.makePosition(x)
}

func (m *treeMap[K, V]) FindLessOrEqual(key K) Position[K, V] {
	x := m.findPosition(key)
	if x != nil && m.keyCompare(x.key, key) > 0 {
		x = x.pred()
	}
	return m.makePosition(x)
}

func (m *treeMap[K, V]) FindLess(key K) Position[K, V] {
	x := m.findPosition(key)
	if x != nil && m.keyCompare(x.key, key) >= 0 {
		x = x.pred()
	}
	return m.makePosition(x)
}

func (m *treeMap[K, V]) FindRange(start, stop *K) RangeIterator[K, V] {
	return &rangeIterator[K, V]{
		m:     m,
		start: start,
		stop:  stop,
	}
}

// Inorder traversal to implement the DFS.
func (m *treeMap[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	aux := m.root
	if aux == nil {
		return
	}

	stack := make([]*bstNode[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// Reverse inorder traversal, descending keys.
func (m *treeMap[K, V]) ReverseForeach(action func(idx int64, key K, val V) bool) {
	aux := m.root
	if aux == nil {
		return
	}

	stack := make([]*bstNode[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.right {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.left; aux != nil; aux = aux.right {
			stack = append(stack, aux)
		}
	}
}

func (m *treeMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.count)
	m.Foreach(func(_ int64, key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (m *treeMap[K, V]) Values() []V {
	vals := make([]V, 0, m.count)
	m.Foreach(func(_ int64, _ K, val V) bool {
		vals = append(vals, val)
		return true
	})
	return vals
}

// Release drops all nodes, the outstanding positions are rejected
// afterwards.
func (m *treeMap[K, V]) Release() {
	count := m.count
	aux := m.root
	m.root = nil
	m.count = 0
	m.stats.RecordSize(-count)
	if aux == nil {
		return
	}

	stack := make([]*bstNode[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		aux.removed = true
		stack = stack[:size-1]
		for aux = r; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
	m.logger.Debug("[xtree] released", zap.Int64("count", count), zap.Stringer("kind", m.kind))
}

func (m *treeMap[K, V]) checkInvariants(op string) {
	if !m.invariantCheck {
		return
	}
	if err := ValidateAll[K, V](m); err != nil {
		m.logger.ErrorStack(err, "[xtree] invariant violation", zap.String("op", op), zap.Stringer("kind", m.kind))
		panic(err)
	}
}

type TreeMapOpt[K infra.OrderedKey, V any] func(*treeMap[K, V])

// WithTreeMapRemoveBorrowSucc borrows the in-order successor instead of
// the predecessor when removing a node with two children.
func WithTreeMapRemoveBorrowSucc[K infra.OrderedKey, V any]() TreeMapOpt[K, V] {
	return func(m *treeMap[K, V]) {
		m.isRmBorrowSucc = true
	}
}

func WithTreeMapLogger[K infra.OrderedKey, V any](logger xlog.XLogger) TreeMapOpt[K, V] {
	return func(m *treeMap[K, V]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTreeMapStats enables the otel instruments, named
// xtree/treemap/<name>.
func WithTreeMapStats[K infra.OrderedKey, V any](name string) TreeMapOpt[K, V] {
	return func(m *treeMap[K, V]) {
		if len(name) == 0 {
			name = "default"
		}
		m.statsName = name
	}
}

// WithTreeMapMeterProvider replaces the global meter provider of the
// stats, only takes effect with WithTreeMapStats.
func WithTreeMapMeterProvider[K infra.OrderedKey, V any](mp metric.MeterProvider) TreeMapOpt[K, V] {
	return func(m *treeMap[K, V]) {
		m.meterProvider = mp
	}
}

// WithTreeMapInvariantCheck validates the whole tree after each
// mutation and panics on violation. Debug and tests only, every
// mutation becomes O(n).
func WithTreeMapInvariantCheck[K infra.OrderedKey, V any]() TreeMapOpt[K, V] {
	return func(m *treeMap[K, V]) {
		m.invariantCheck = true
	}
}

func NewTreeMap[K infra.OrderedKey, V any](kind RebalanceKind, opts ...TreeMapOpt[K, V]) SortedMap[K, V] {
	if kind >= _rebalanceKindMax {
		kind = PlainBST
	}
	m := &treeMap[K, V]{
		kind: kind,
	}
	m.logger = xlog.NewNopXLogger()

	for _, o := range opts {
		o(m)
	}

	m.rebalancer = newRebalancer[K, V](kind)
	if len(m.statsName) > 0 {
		m.stats = newTreeStats(m.statsName, m.meterProvider, kind)
	}
	return m
}

func NewBSTMap[K infra.OrderedKey, V any](opts ...TreeMapOpt[K, V]) SortedMap[K, V] {
	return NewTreeMap[K, V](PlainBST, opts...)
}

func NewRBTreeMap[K infra.OrderedKey, V any](opts ...TreeMapOpt[K, V]) SortedMap[K, V] {
	return NewTreeMap[K, V](RedBlack, opts...)
}

func NewSplayTreeMap[K infra.OrderedKey, V any](opts ...TreeMapOpt[K, V]) SortedMap[K, V] {
	return NewTreeMap[K, V](Splay, opts...)
}
