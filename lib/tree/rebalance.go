package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

// rebalancer is the strategy invoked by the tree map after each
// operation. The node passed in is always linked into the tree,
// except for onDelete which receives the parent of the removed
// node and nil if the root itself was removed.
type rebalancer[K infra.OrderedKey, V any] interface {
	// onAccess after a search or an in-place value overwrite, with
	// the matched node or the last node reached by a missed search.
	onAccess(tree *linkedTree[K, V], node *bstNode[K, V])
	// onInsert after a new leaf was attached.
	onInsert(tree *linkedTree[K, V], node *bstNode[K, V])
	// onDelete after a node with at most one child was detached.
	onDelete(tree *linkedTree[K, V], parent *bstNode[K, V])
}

func newRebalancer[K infra.OrderedKey, V any](kind RebalanceKind) rebalancer[K, V] {
	switch kind {
	case RedBlack:
		return rbRebalancer[K, V]{}
	case Splay:
		return splayRebalancer[K, V]{}
	case PlainBST:
		fallthrough
	default:
	}
	return noopRebalancer[K, V]{}
}

var _ rebalancer[int, struct{}] = noopRebalancer[int, struct{}]{}

// noopRebalancer keeps the plain binary search tree shape.
type noopRebalancer[K infra.OrderedKey, V any] struct{}

func (noopRebalancer[K, V]) onAccess(*linkedTree[K, V], *bstNode[K, V]) {}

func (noopRebalancer[K, V]) onInsert(*linkedTree[K, V], *bstNode[K, V]) {}

func (noopRebalancer[K, V]) onDelete(*linkedTree[K, V], *bstNode[K, V]) {}
