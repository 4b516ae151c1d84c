package tree

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
)

// References:
// Goodrich, Tamassia, Goldwasser. Data Structures and Algorithms in Python, 11.6
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red leaf,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.

var _ rebalancer[int, struct{}] = rbRebalancer[int, struct{}]{}

// rbRebalancer keeps the red-black properties by trinode
// restructuring and recoloring. Lookups change nothing.
type rbRebalancer[K infra.OrderedKey, V any] struct{}

func (rbRebalancer[K, V]) onAccess(*linkedTree[K, V], *bstNode[K, V]) {}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

i1: X is root, repaint it into black.

i2: X's parent P is black, nothing violated.

i3: X's parent P is red and the uncle U is black (or NIL). (red-violation)
Trinode restructuring of X, P and G. The top of the three is
painted into black and its children into red. Resolved.

	    [G]                <P>                [P]
	    / \   restructure  / \     repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

i4: Both the parent P and the uncle U are red. (red-violation)
Repaint G into red, P and U into black. G may be red-violation
now, continue with G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>
*/
func (rbRebalancer[K, V]) onInsert(tree *linkedTree[K, V], x *bstNode[K, V]) {
	for x != nil {
		if /* i1 */ x.isRoot() {
			tree.paint(x, Black)
			return
		}

		p := x.parent
		if /* i2 */ p.isBlack() {
			return
		}
		if p.isRoot() {
			// impossible run to here
			panic( /* debug assertion */ "[xtree] rbtree red root, violate (i3)")
		}

		if uncle := p.sibling(); /* i3 */ uncle.isBlack() {
			middle := tree.restructure(x)
			tree.paint(middle, Black)
			tree.paint(middle.left, Red)
			tree.paint(middle.right, Red)
			return
		}

		/* i4 */
		g := p.parent
		tree.paint(g, Red)
		tree.paint(g.left, Black)
		tree.paint(g.right, Black)
		x = g
	}
}

/*
P is the parent of the removed node, or nil if the root
was removed.

r1: Only one element left, make sure the root is black.

r2: P has one child C. The removed node was a black leaf and
its side is one black short (deficit), unless C is a red leaf
(then the removed one was a red leaf too). Fix the deficit at P,
C is the root of the heavier subtree.

r3: P has two children. The removed node was black and its
red child has been promoted. Exactly one child of P is a red
leaf, repaint it into black.

	      {P}                   {P}                {P}
	      / \     remove(X)     / \     repaint    / \
	    [X] [S]  ==========>  <C> [S]  ======>  [C] [S]
	    /
	  <C>

r4: P has no child. The removed node was a red leaf, nothing
violated.
*/
func (rb rbRebalancer[K, V]) onDelete(tree *linkedTree[K, V], p *bstNode[K, V]) {
	if /* r1 */ tree.count == 1 {
		tree.paint(tree.root, Black)
		return
	}
	if p == nil {
		return
	}

	switch p.numChildren() {
	case /* r2 */ 1:
		c := p.left
		if c == nil {
			c = p.right
		}
		if !c.isRedLeaf() {
			rb.fixDeficit(tree, p, c)
		}
	case /* r3 */ 2:
		l, r := p.left.isRedLeaf(), p.right.isRedLeaf()
		if l == r {
			err := infra.WrapErrorStackWithMessage(
				ErrInvariantViolation,
				fmt.Sprintf("[xtree] rbtree remove expects exactly one red leaf child of key(%v)", p.key),
			)
			tree.logger.ErrorStack(err, "[xtree] rbtree remove violate (r3)", zap.Bool("redLeft", l), zap.Bool("redRight", r))
			panic(err)
		}
		if l {
			tree.paint(p.left, Black)
		} else {
			tree.paint(p.right, Black)
		}
	default: /* r4 */
	}
}

/*
fixDeficit resolves the black deficit at Z, where Y is the root
of the heavier subtree of Z.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

d1 (transfer): Y is black and has a red child X.
Trinode restructuring of X, Y and Z. The top of the three
inherits the old color of Z, its children are painted into black.
Resolved.

	      {Z}                       {Y}
	      / \                       / \
	    [D] [Y]   restructure(X)  [Z] [X]
	          \   =============>  /
	          <X>               [D]

d2 (fusion): Y is black and has no red child. Repaint Y into red.
If Z is red, repaint Z into black, resolved. Otherwise the deficit
moves up to Z, continue with Z's parent and Z's sibling.

	      {Z}             [Z]
	      / \             / \
	    [D] [Y]  ====>  [D] <Y>
	        / \             / \
	      [A] [B]         [A] [B]

d3: Y is red. Rotate Y above Z, repaint Y into black and Z into
red. Z's new heavier child is black, continue with Z and it,
then d1 or d2 applies.

	      [Z]                   [Y]
	      / \                   / \
	    [D] <Y>   rotate(Y)   <Z> [B]
	        / \   ========>   / \
	      [A] [B]           [D] [A]
*/
func (rbRebalancer[K, V]) fixDeficit(tree *linkedTree[K, V], z, y *bstNode[K, V]) {
	for {
		if z == nil || y == nil {
			// impossible run to here
			panic( /* debug assertion */ "[xtree] rbtree deficit without heavier subtree")
		}

		if y.isBlack() {
			if x := y.redChild(); /* d1 */ x != nil {
				oldColor := z.color
				middle := tree.restructure(x)
				tree.paint(middle, oldColor)
				tree.paint(middle.left, Black)
				tree.paint(middle.right, Black)
				return
			}

			/* d2 */
			tree.paint(y, Red)
			if z.isRed() {
				tree.paint(z, Black)
				return
			}
			if z.isRoot() {
				return
			}
			tree.logger.Debug("[xtree] rbtree deficit propagates upward", zap.Any("key", z.key))
			y, z = z.sibling(), z.parent
			continue
		}

		/* d3 */
		tree.rotate(y)
		tree.paint(y, Black)
		tree.paint(z, Red)
		if z == y.right {
			y = z.left
		} else {
			y = z.right
		}
	}
}
