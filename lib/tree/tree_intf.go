package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

// RebalanceKind selects the strategy restoring the tree shape
// after each accessing or mutating operation.
type RebalanceKind uint8

const (
	PlainBST RebalanceKind = iota
	RedBlack
	Splay
	_rebalanceKindMax
)

func (kind RebalanceKind) String() string {
	switch kind {
	case PlainBST:
		return "PlainBST"
	case RedBlack:
		return "RedBlack"
	case Splay:
		return "Splay"
	default:
	}
	return "Unknown"
}

var (
	ErrKeyNotFound        = errors.New("[xtree] key not found")
	ErrInvalidHandle      = errors.New("[xtree] invalid position handle")
	ErrDuplicateRoot      = errors.New("[xtree] root exists")
	ErrChildExists        = errors.New("[xtree] child exists")
	ErrTwoChildren        = errors.New("[xtree] position has two children")
	ErrReplaceDisabled    = errors.New("[xtree] replace disabled")
	ErrEmptyTree          = errors.New("[xtree] there is no element")
	ErrInvariantViolation = errors.New("[xtree] invariant violation")
)

// Position is a handle to the location of one element, issued by
// and scoped to a single tree. It stays valid across rotations and
// is rejected with ErrInvalidHandle once its element is removed.
// Positions of the same location are equal (==).
type Position[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	// Color is meaningful for the red-black variant only.
	Color() RBColor
}

type BinaryTree[K infra.OrderedKey, V any] interface {
	Len() int64
	IsEmpty() bool
	Root() Position[K, V]
	Parent(p Position[K, V]) (Position[K, V], error)
	Left(p Position[K, V]) (Position[K, V], error)
	Right(p Position[K, V]) (Position[K, V], error)
	Sibling(p Position[K, V]) (Position[K, V], error)
	Children(p Position[K, V]) ([]Position[K, V], error)
	NumChildren(p Position[K, V]) (int, error)
	IsRoot(p Position[K, V]) (bool, error)
	IsLeaf(p Position[K, V]) (bool, error)
	// Depth is the number of ancestors of p.
	Depth(p Position[K, V]) (int, error)
	// Height is the number of edges on the longest downward path from p.
	Height(p Position[K, V]) (int, error)

	// The traversals stop as soon as the action returns false.

	Preorder(action func(p Position[K, V]) bool)
	Postorder(action func(p Position[K, V]) bool)
	Inorder(action func(p Position[K, V]) bool)
	BreadthFirst(action func(p Position[K, V]) bool)
}

// RangeIterator is a lazy, finite and non-restartable ascending sequence.
type RangeIterator[K infra.OrderedKey, V any] interface {
	Next() bool
	Key() K
	Val() V
}

type SortedMap[K infra.OrderedKey, V any] interface {
	BinaryTree[K, V]
	Kind() RebalanceKind

	Get(key K) (V, error)
	Contains(key K) bool
	Set(key K, val V)
	SetIfAbsent(key K, val V) error
	Delete(key K) (V, error)
	DeleteAt(p Position[K, V]) (V, error)
	RemoveMin() (K, V, error)
	RemoveMax() (K, V, error)

	First() Position[K, V]
	Last() Position[K, V]
	Before(p Position[K, V]) (Position[K, V], error)
	After(p Position[K, V]) (Position[K, V], error)
	FindGreaterOrEqual(key K) Position[K, V]
	FindGreater(key K) Position[K, V]
	FindLessOrEqual(key K) Position[K, V]
	FindLess(key K) Position[K, V]
	// FindRange iterates start <= key < stop, a nil bound is open.
	FindRange(start, stop *K) RangeIterator[K, V]

	Foreach(action func(idx int64, key K, val V) bool)
	ReverseForeach(action func(idx int64, key K, val V) bool)
	Keys() []K
	Values() []V
	Release()
}
