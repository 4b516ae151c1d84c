package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type bstNode[K infra.OrderedKey, V any] struct {
	parent *bstNode[K, V]
	left   *bstNode[K, V]
	right  *bstNode[K, V]
	key    K
	val    V
	color  RBColor
	// Tombstone of a detached node, the positions referencing
	// it must be rejected.
	removed bool
}

// New nodes are red, only the red-black rebalancer reads the color.
func newBSTNode[K infra.OrderedKey, V any](key K, val V, parent, left, right *bstNode[K, V]) *bstNode[K, V] {
	return &bstNode[K, V]{
		parent: parent,
		left:   left,
		right:  right,
		key:    key,
		val:    val,
		color:  Red,
	}
}

// nil is black.
func (node *bstNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *bstNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *bstNode[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *bstNode[K, V]) isLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func (node *bstNode[K, V]) isRedLeaf() bool {
	return node.isRed() && node.isLeaf()
}

func (node *bstNode[K, V]) numChildren() int {
	n := 0
	if node.left != nil {
		n++
	}
	if node.right != nil {
		n++
	}
	return n
}

func (node *bstNode[K, V]) direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] nil node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *bstNode[K, V]) sibling() *bstNode[K, V] {
	switch node.direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

// redChild returns a red child of the node, the left one goes first.
func (node *bstNode[K, V]) redChild() *bstNode[K, V] {
	if node.left.isRed() {
		return node.left
	}
	if node.right.isRed() {
		return node.right
	}
	return nil
}

func (node *bstNode[K, V]) minimum() *bstNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *bstNode[K, V]) maximum() *bstNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order
func (node *bstNode[K, V]) pred() *bstNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's pred.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *bstNode[K, V]) succ() *bstNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's succ.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

var _ Position[int, struct{}] = position[int, struct{}]{}

// position is a value handle, two positions pointing to the
// same node of the same tree are equal.
type position[K infra.OrderedKey, V any] struct {
	owner *linkedTree[K, V]
	node  *bstNode[K, V]
}

func (p position[K, V]) Key() K {
	return p.node.key
}

func (p position[K, V]) Val() V {
	return p.node.val
}

func (p position[K, V]) Color() RBColor {
	return p.node.color
}
