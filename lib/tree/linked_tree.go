package tree

import (
	"fmt"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

// linkedTree is the structural layer shared by every sorted map
// variant. It owns the nodes and is the only place mutating the
// parent/child links.
type linkedTree[K infra.OrderedKey, V any] struct {
	root   *bstNode[K, V]
	count  int64
	logger xlog.XLogger
	stats  *treeStats
}

func (tree *linkedTree[K, V]) makePosition(node *bstNode[K, V]) Position[K, V] {
	if node == nil {
		return nil
	}
	return position[K, V]{owner: tree, node: node}
}

func (tree *linkedTree[K, V]) validate(p Position[K, V]) (*bstNode[K, V], error) {
	var err error
	pos, ok := p.(position[K, V])
	if !ok {
		err = fmt.Errorf("[xtree] position type %T mismatch, %w", p, ErrInvalidHandle)
	} else if pos.owner != tree {
		err = fmt.Errorf("[xtree] position does not belong to this tree, %w", ErrInvalidHandle)
	} else if pos.node == nil || pos.node.removed {
		err = fmt.Errorf("[xtree] position is no longer valid, %w", ErrInvalidHandle)
	}
	if err != nil {
		tree.logger.Debug("[xtree] reject position", zap.Error(err))
		return nil, err
	}
	return pos.node, nil
}

func (tree *linkedTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *linkedTree[K, V]) IsEmpty() bool {
	return tree.count == 0
}

func (tree *linkedTree[K, V]) Root() Position[K, V] {
	return tree.makePosition(tree.root)
}

func (tree *linkedTree[K, V]) Parent(p Position[K, V]) (Position[K, V], error) {
	node, err := tree.validate(p)
	if err != nil {
		return nil, err
	}
	return tree.makePosition(node.parent), nil
}

func (tree *linkedTree[K, V]) Left(p Position[K, V]) (Position[K, V], error) {
	node, err := tree.validate(p)
	if err != nil {
		return nil, err
	}
	return tree.makePosition(node.left), nil
}

func (tree *linkedTree[K, V]) Right(p Position[K, V]) (Position[K, V], error) {
	node, err := tree.validate(p)
	if err != nil {
		return nil, err
	}
	return tree.makePosition(node.right), nil
}

func (tree *linkedTree[K, V]) Sibling(p Position[K, V]) (Position[K, V], error) {
	node, err := tree.validate(p)
	if err != nil {
		return nil, err
	}
	return tree.makePosition(node.sibling()), nil
}

func (tree *linkedTree[K, V]) Children(p Position[K, V]) ([]Position[K, V], error) {
	node, err := tree.validate(p)
	if err != nil {
		return nil, err
	}
	children := make([]Position[K, V], 0, 2)
	if node.left != nil {
		children = append(children, tree.makePosition(node.left))
	}
	if node.right != nil {
		children = append(children, tree.makePosition(node.right))
	}
	return children, nil
}

func (tree *linkedTree[K, V]) NumChildren(p Position[K, V]) (int, error) {
	node, err := tree.validate(p)
	if err != nil {
		return 0, err
	}
	return node.numChildren(), nil
}

func (tree *linkedTree[K, V]) IsRoot(p Position[K, V]) (bool, error) {
	node, err := tree.validate(p)
	if err != nil {
		return false, err
	}
	return node == tree.root, nil
}

func (tree *linkedTree[K, V]) IsLeaf(p Position[K, V]) (bool, error) {
	node, err := tree.validate(p)
	if err != nil {
		return false, err
	}
	return node.isLeaf(), nil
}

func (tree *linkedTree[K, V]) Depth(p Position[K, V]) (int, error) {
	node, err := tree.validate(p)
	if err != nil {
		return 0, err
	}
	depth := 0
	for aux := node.parent; aux != nil; aux = aux.parent {
		depth++
	}
	return depth, nil
}

// Height walks the subtree level by level, an unbalanced tree
// does not grow the goroutine stack.
func (tree *linkedTree[K, V]) Height(p Position[K, V]) (int, error) {
	node, err := tree.validate(p)
	if err != nil {
		return 0, err
	}
	height := -1
	level := []*bstNode[K, V]{node}
	for len(level) > 0 {
		height++
		next := make([]*bstNode[K, V], 0, len(level)<<1)
		for _, aux := range level {
			if aux.left != nil {
				next = append(next, aux.left)
			}
			if aux.right != nil {
				next = append(next, aux.right)
			}
		}
		level = next
	}
	return height, nil
}

func (tree *linkedTree[K, V]) Preorder(action func(p Position[K, V]) bool) {
	if tree.root == nil {
		return
	}
	stack := make([]*bstNode[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()

	stack = append(stack, tree.root)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if !action(tree.makePosition(aux)) {
			return
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
	}
}

func (tree *linkedTree[K, V]) Postorder(action func(p Position[K, V]) bool) {
	if tree.root == nil {
		return
	}
	stack := make([]*bstNode[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()

	var prev *bstNode[K, V]
	for aux := tree.root; aux != nil || len(stack) > 0; {
		if aux != nil {
			stack = append(stack, aux)
			aux = aux.left
			continue
		}
		top := stack[len(stack)-1]
		if top.right != nil && top.right != prev {
			aux = top.right
			continue
		}
		stack = stack[:len(stack)-1]
		if !action(tree.makePosition(top)) {
			return
		}
		prev = top
	}
}

func (tree *linkedTree[K, V]) Inorder(action func(p Position[K, V]) bool) {
	for aux := tree.root.minimum(); aux != nil; aux = aux.succ() {
		if !action(tree.makePosition(aux)) {
			return
		}
	}
}

func (tree *linkedTree[K, V]) BreadthFirst(action func(p Position[K, V]) bool) {
	if tree.root == nil {
		return
	}
	fringe := linkedlistqueue.New()
	defer fringe.Clear()

	fringe.Enqueue(tree.root)
	for !fringe.Empty() {
		e, _ := fringe.Dequeue()
		aux := e.(*bstNode[K, V])
		if !action(tree.makePosition(aux)) {
			return
		}
		if aux.left != nil {
			fringe.Enqueue(aux.left)
		}
		if aux.right != nil {
			fringe.Enqueue(aux.right)
		}
	}
}

func (tree *linkedTree[K, V]) addRoot(key K, val V) (*bstNode[K, V], error) {
	if tree.root != nil {
		err := infra.WrapErrorStack(ErrDuplicateRoot)
		tree.logger.ErrorStack(err, "[xtree] add root to a non-empty tree")
		return nil, err
	}
	tree.root = newBSTNode[K, V](key, val, nil, nil, nil)
	tree.count = 1
	tree.stats.RecordSize(1)
	return tree.root, nil
}

func (tree *linkedTree[K, V]) addLeft(parent *bstNode[K, V], key K, val V) (*bstNode[K, V], error) {
	if parent.left != nil {
		return nil, fmt.Errorf("[xtree] add left child, %w", ErrChildExists)
	}
	parent.left = newBSTNode[K, V](key, val, parent, nil, nil)
	tree.count++
	tree.stats.RecordSize(1)
	return parent.left, nil
}

func (tree *linkedTree[K, V]) addRight(parent *bstNode[K, V], key K, val V) (*bstNode[K, V], error) {
	if parent.right != nil {
		return nil, fmt.Errorf("[xtree] add right child, %w", ErrChildExists)
	}
	parent.right = newBSTNode[K, V](key, val, parent, nil, nil)
	tree.count++
	tree.stats.RecordSize(1)
	return parent.right, nil
}

// replace swaps the element of the node and returns the old one.
func (tree *linkedTree[K, V]) replace(node *bstNode[K, V], key K, val V) (K, V) {
	oldKey, oldVal := node.key, node.val
	node.key, node.val = key, val
	return oldKey, oldVal
}

// remove detaches a node owning at most one child, the child (if any)
// takes its place. The detached node is tombstoned.
func (tree *linkedTree[K, V]) remove(node *bstNode[K, V]) (*bstNode[K, V], error) {
	if node.left != nil && node.right != nil {
		return nil, fmt.Errorf("[xtree] remove node, %w", ErrTwoChildren)
	}
	child := node.left
	if child == nil {
		child = node.right
	}
	if child != nil {
		child.parent = node.parent
	}

	switch dir := node.direction(); dir {
	case Root:
		tree.root = child
	case Left:
		node.parent.left = child
	case Right:
		node.parent.right = child
	default:
	}

	tree.count--
	tree.stats.RecordSize(-1)
	node.parent, node.left, node.right = nil, nil, nil
	node.removed = true
	return child, nil
}

func (tree *linkedTree[K, V]) relink(parent, child *bstNode[K, V], makeLeft bool) {
	if makeLeft {
		parent.left = child
	} else {
		parent.right = child
	}
	if child != nil {
		child.parent = parent
	}
}

/*
rotate promotes X above its parent P, the middle subtree M
is moved to the demoted P. X replaces P under G (or becomes
the root if there is no G).

	     |                        |
	     P                        X
	    / \     rotate(X)        / \
	   X   R    ==========>     L   P
	  / \                          / \
	 L   M                        M   R

The mirrored case is symmetric.
*/
func (tree *linkedTree[K, V]) rotate(x *bstNode[K, V]) {
	if x == nil || x.parent == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rotate node x is nil or x is root")
	}

	p := x.parent
	if g := p.parent; g == nil {
		tree.root = x
		x.parent = nil
	} else {
		tree.relink(g, x, p == g.left)
	}

	if x == p.left {
		tree.relink(p, x.right, true)
		tree.relink(x, p, false)
	} else {
		tree.relink(p, x.left, false)
		tree.relink(x, p, true)
	}
	tree.stats.IncreaseRotations()
}

/*
restructure performs the trinode restructuring of X, its
parent Y and its grandparent Z, and returns the node ending
up on the top of the three.

Aligned (zig-zig), rotate(Y):

	      Z                 Y
	     /                 / \
	    Y       ====>     X   Z
	   /
	  X

Misaligned (zig-zag), rotate(X) twice:

	    Z               Z               X
	   /               /               / \
	  Y     ====>     X     ====>     Y   Z
	   \             /
	    X           Y
*/
func (tree *linkedTree[K, V]) restructure(x *bstNode[K, V]) *bstNode[K, V] {
	y := x.parent
	if y == nil || y.parent == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] restructure node x without grandpa")
	}
	z := y.parent
	tree.stats.IncreaseRestructures()
	if (x == y.right) == (y == z.right) {
		tree.rotate(y)
		return y
	}
	tree.rotate(x)
	tree.rotate(x)
	return x
}

func (tree *linkedTree[K, V]) paint(node *bstNode[K, V], color RBColor) {
	if node == nil || node.color == color {
		return
	}
	node.color = color
	tree.stats.IncreaseRecolors()
}
