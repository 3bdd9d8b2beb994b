package scheduled

import "container/heap"

// PriorityStack pops items in descending priority order; items pushed at
// equal priority pop LIFO (most recently pushed first). The scheduler uses
// this to decide, within a stratum, which loop-nested subgraph reruns
// first: deeper loop nesting gets a higher priority so an inner loop fully
// drains before its enclosing loop's stratum is considered finished.
//
// There is no third-party priority queue in the dependency set this
// module draws from, and container/heap is the idiomatic stdlib answer
// for a small, short-lived binary heap — this is one of the few places
// the implementation is plain stdlib by necessity rather than omission.
type PriorityStack[T any] struct {
	h prioHeap[T]
	n int
}

// NewPriorityStack returns an empty PriorityStack.
func NewPriorityStack[T any]() *PriorityStack[T] {
	return &PriorityStack[T]{}
}

// Push inserts an item at the given priority.
func (s *PriorityStack[T]) Push(priority int, item T) {
	heap.Push(&s.h, prioItem[T]{priority: priority, seq: s.n, item: item})
	s.n++
}

// Pop removes and returns the highest-priority item, with ties broken
// LIFO. The second return value is false if the stack is empty.
func (s *PriorityStack[T]) Pop() (T, bool) {
	if s.h.Len() == 0 {
		var zero T
		return zero, false
	}
	it := heap.Pop(&s.h).(prioItem[T])
	return it.item, true
}

// Len returns the number of queued items.
func (s *PriorityStack[T]) Len() int { return s.h.Len() }

type prioItem[T any] struct {
	priority int
	seq      int
	item     T
}

type prioHeap[T any] []prioItem[T]

func (h prioHeap[T]) Len() int { return len(h) }

func (h prioHeap[T]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	// LIFO on ties: the later-pushed (larger seq) item sorts first.
	return h[i].seq > h[j].seq
}

func (h prioHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *prioHeap[T]) Push(x any) {
	*h = append(*h, x.(prioItem[T]))
}

func (h *prioHeap[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
