package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

// Tree rule validation utilities.
// Every violation wraps ErrInvariantViolation and carries the
// frames (infra.ErrorStack) where it was detected.

func violation(format string, args ...any) error {
	return infra.WrapErrorStackWithMessage(ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// OrderViolationValidate checks that all keys in the left subtree
// of a node are less than its key and all keys in the right subtree
// are greater.
func OrderViolationValidate[K infra.OrderedKey, V any](tree BinaryTree[K, V]) error {
	type bounded struct {
		p      Position[K, V]
		lo, hi *K
	}

	root := tree.Root()
	if root == nil {
		return nil
	}
	stack := []bounded{{p: root}}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]

		key := aux.p.Key()
		if aux.lo != nil && !(*aux.lo < key) {
			return violation("[xtree] order violation, key(%v) is not greater than key(%v)", key, *aux.lo)
		}
		if aux.hi != nil && !(key < *aux.hi) {
			return violation("[xtree] order violation, key(%v) is not less than key(%v)", key, *aux.hi)
		}

		l, err := tree.Left(aux.p)
		if err != nil {
			return err
		}
		r, err := tree.Right(aux.p)
		if err != nil {
			return err
		}
		if l != nil {
			stack = append(stack, bounded{p: l, lo: aux.lo, hi: &key})
		}
		if r != nil {
			stack = append(stack, bounded{p: r, lo: &key, hi: aux.hi})
		}
	}
	return nil
}

// LinkViolationValidate checks the parent and child links point
// to each other.
func LinkViolationValidate[K infra.OrderedKey, V any](tree BinaryTree[K, V]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	if p, err := tree.Parent(root); err != nil {
		return err
	} else if p != nil {
		return violation("[xtree] link violation, root key(%v) has parent", root.Key())
	}

	var err error
	tree.Preorder(func(p Position[K, V]) bool {
		children, _err := tree.Children(p)
		if _err != nil {
			err = _err
			return false
		}
		for _, c := range children {
			parent, _err := tree.Parent(c)
			if _err != nil {
				err = _err
				return false
			}
			if parent != p {
				err = violation("[xtree] link violation, key(%v) is not the parent of key(%v)", p.Key(), c.Key())
				return false
			}
		}
		return true
	})
	return err
}

// SizeViolationValidate checks the element count equals the number of
// reachable nodes.
func SizeViolationValidate[K infra.OrderedKey, V any](tree BinaryTree[K, V]) error {
	reachable := int64(0)
	tree.Inorder(func(Position[K, V]) bool {
		reachable++
		return true
	})
	if reachable != tree.Len() {
		return violation("[xtree] size violation, len %d, reachable %d", tree.Len(), reachable)
	}
	return nil
}

func isRedPosition[K infra.OrderedKey, V any](p Position[K, V]) bool {
	return p != nil && p.Color() == Red
}

// RedViolationValidate checks the root is black and there is no red
// node with a red child.
func RedViolationValidate[K infra.OrderedKey, V any](tree BinaryTree[K, V]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	if isRedPosition[K, V](root) {
		return violation("[xtree] rbtree red violation, root key(%v) is red", root.Key())
	}

	var err error
	tree.Preorder(func(p Position[K, V]) bool {
		if !isRedPosition[K, V](p) {
			return true
		}
		children, _err := tree.Children(p)
		if _err != nil {
			err = _err
			return false
		}
		for _, c := range children {
			if isRedPosition[K, V](c) {
				err = violation("[xtree] rbtree red violation, key(%v) and its child key(%v)", p.Key(), c.Key())
				return false
			}
		}
		return true
	})
	return err
}

// BFS traversal to load all nodes owning a nil child.
func bfsLeaves[K infra.OrderedKey, V any](tree BinaryTree[K, V]) ([]Position[K, V], error) {
	var (
		leaves []Position[K, V]
		err    error
	)
	tree.BreadthFirst(func(p Position[K, V]) bool {
		n, _err := tree.NumChildren(p)
		if _err != nil {
			err = _err
			return false
		}
		if /* nil leaves, keep one */ n < 2 {
			leaves = append(leaves, p)
		}
		return true
	})
	return leaves, err
}

func blackDepth[K infra.OrderedKey, V any](tree BinaryTree[K, V], p Position[K, V]) (int, error) {
	depth := 0
	for aux := p; aux != nil; {
		if !isRedPosition[K, V](aux) {
			depth++
		}
		parent, err := tree.Parent(aux)
		if err != nil {
			return 0, err
		}
		aux = parent
	}
	return depth, nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

2-3-4 tree like:

	       <8> --- [13] --- <15>
	      /  \             /    \
	     /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each nil leaf to root black depth are equal.
*/
func BlackViolationValidate[K infra.OrderedKey, V any](tree BinaryTree[K, V]) error {
	leaves, err := bfsLeaves[K, V](tree)
	if err != nil || len(leaves) == 0 {
		return err
	}

	expected, err := blackDepth[K, V](tree, leaves[0])
	if err != nil {
		return err
	}
	for i := 1; i < len(leaves); i++ {
		depth, err := blackDepth[K, V](tree, leaves[i])
		if err != nil {
			return err
		}
		if depth != expected {
			return violation("[xtree] rbtree black violation, key(%v) black depth %d, expected %d",
				leaves[i].Key(), depth, expected)
		}
	}
	return nil
}

// ValidateAll runs every validator applying to the map kind and
// combines the violations.
func ValidateAll[K infra.OrderedKey, V any](m SortedMap[K, V]) error {
	err := multierr.Combine(
		OrderViolationValidate[K, V](m),
		LinkViolationValidate[K, V](m),
		SizeViolationValidate[K, V](m),
	)
	if m.Kind() == RedBlack {
		err = multierr.Append(err, RedViolationValidate[K, V](m))
		err = multierr.Append(err, BlackViolationValidate[K, V](m))
	}
	return err
}
