package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey is the key constraint of the sorted containers.
// Every type in the set supports the `<` and `==` operators,
// so the keys are totally ordered (NaN is not).
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i > j (return 1), turn to right part.
//  3. i < j (return -1), turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

// KeyCompare is the default OrderedKeyComparator, ascending order.
func KeyCompare[K OrderedKey](i, j K) int64 {
	if i == j {
		return 0
	} else if i < j {
		return -1
	}
	return 1
}

// ReverseKeyCompare returns a comparator ordering keys descending.
func ReverseKeyCompare[K OrderedKey](cmp OrderedKeyComparator[K]) OrderedKeyComparator[K] {
	if cmp == nil {
		cmp = KeyCompare[K]
	}
	return func(i, j K) int64 {
		return -cmp(i, j)
	}
}
