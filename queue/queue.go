// Package queue implements a generic comparator-ordered priority queue.
package queue

import (
	"container/heap"

	"github.com/hupe1980/sparsekit"
)

// Compile time check to ensure pqHeap satisfies the heap interface.
var _ heap.Interface = (*pqHeap[int])(nil)

// LessFunc reports whether a should be dequeued before b.
type LessFunc[T any] func(a, b T) bool

// pqHeap adapts the item slice to heap.Interface.
type pqHeap[T any] struct {
	items []T
	less  LessFunc[T]
}

func (h *pqHeap[T]) Len() int { return len(h.items) }

func (h *pqHeap[T]) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }

func (h *pqHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *pqHeap[T]) Push(x any) {
	item, _ := x.(T)
	h.items = append(h.items, item)
}

func (h *pqHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	var zero T
	old[n-1] = zero // Avoid memory leak
	h.items = old[:n-1]
	return item
}

// PriorityQueue holds items of T ordered by a LessFunc.
// Not safe for concurrent use.
type PriorityQueue[T any] struct {
	h *pqHeap[T]
}

// New creates an empty PriorityQueue ordered by less.
func New[T any](less LessFunc[T]) (*PriorityQueue[T], error) {
	if less == nil {
		return nil, sparsekit.ErrInvalidArguments
	}
	return &PriorityQueue[T]{h: &pqHeap[T]{less: less}}, nil
}

// Len returns the number of queued items.
func (q *PriorityQueue[T]) Len() int { return q.h.Len() }

// Push adds v to the queue.
func (q *PriorityQueue[T]) Push(v T) {
	heap.Push(q.h, v)
}

// Pop removes and returns the top item.
func (q *PriorityQueue[T]) Pop() (T, error) {
	var zero T
	if q.h.Len() == 0 {
		return zero, sparsekit.ErrUnderflow
	}
	item, _ := heap.Pop(q.h).(T)
	return item, nil
}

// Peek returns the top item without removing it.
func (q *PriorityQueue[T]) Peek() (T, error) {
	var zero T
	if q.h.Len() == 0 {
		return zero, sparsekit.ErrUnderflow
	}
	return q.h.items[0], nil
}
