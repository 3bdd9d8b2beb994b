// Package ops implements the stateful relational operator library built
// on top of the scheduled package: symmetric hash join (set and multiset),
// anti-join (set and multiset), fold, reduce/reduce-keyed/fold-keyed,
// cross-singleton, zip, difference (set and multiset), resolve-futures
// (ordered and unordered), and a generic lattice-merge state operator.
//
// Every operator is a free function — Go methods can't introduce new type
// parameters beyond their receiver's — that wires one or more scheduled
// subgraphs into a Builder and returns typed RecvPort(s) for its output.
package ops

// Pair is this package's stand-in for a 2-tuple, since Go has no native
// tuple type. Operators that logically produce (K, V) pairs (join results,
// zip results, keyed-fold results) use Pair[K, V].
type Pair[A any, B any] struct {
	First  A
	Second B
}

// NewPair is a convenience constructor.
func NewPair[A any, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}
