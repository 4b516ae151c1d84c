package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

var _ rebalancer[int, struct{}] = splayRebalancer[int, struct{}]{}

// splayRebalancer moves every accessed or inserted node to the root.
// No extra node state is required.
type splayRebalancer[K infra.OrderedKey, V any] struct{}

/*
X is the node to splay, P is its parent and G is its grandparent.

zig: X has no grandparent, rotate(X).

	    P              X
	   /     ====>      \
	  X                  P

zig-zig: X and P are both left (or both right) children,
rotate(P) and then rotate(X).

	      G                              X
	     /                                \
	    P       rotate(P), rotate(X)       P
	   /        ====================>       \
	  X                                      G

zig-zag: one of X and P is a left child and the other is a
right child, rotate(X) twice.

	    G                          X
	   /                          / \
	  P      rotate(X) x 2       P   G
	   \     ============>
	    X
*/
func (splayRebalancer[K, V]) splay(tree *linkedTree[K, V], x *bstNode[K, V]) {
	if x == nil || x.removed {
		return
	}
	for !x.isRoot() {
		p := x.parent
		g := p.parent
		if /* zig */ g == nil {
			tree.rotate(x)
		} else if /* zig-zig */ (p == g.left) == (x == p.left) {
			tree.rotate(p)
			tree.rotate(x)
		} else /* zig-zag */ {
			tree.rotate(x)
			tree.rotate(x)
		}
	}
	tree.stats.IncreaseSplays()
}

func (s splayRebalancer[K, V]) onAccess(tree *linkedTree[K, V], node *bstNode[K, V]) {
	s.splay(tree, node)
}

func (s splayRebalancer[K, V]) onInsert(tree *linkedTree[K, V], node *bstNode[K, V]) {
	s.splay(tree, node)
}

// onDelete splays the surviving parent of the removed node.
func (s splayRebalancer[K, V]) onDelete(tree *linkedTree[K, V], parent *bstNode[K, V]) {
	if parent == nil {
		return
	}
	s.splay(tree, parent)
}
