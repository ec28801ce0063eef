// Package vector implements a generic growable array.
//
// Vector owns a contiguous buffer of capacity slots of which the first
// length hold live elements. Capacity grows geometrically and never shrinks.
// Element duplication and release are governed by a lifecycle.Policy: with an
// empty policy elements are stored by plain assignment; with a populated
// policy every placement clones the value into vector-owned storage and every
// destruction disposes it.
//
// Most operations come in an order-preserving and an order-breaking ("fast")
// variant. The order-preserving variants shift neighbors and cost O(length);
// the fast variants relocate a single boundary element and cost amortized
// O(1).
package vector

import (
	"math"

	"github.com/hupe1980/sparsekit"
	"github.com/hupe1980/sparsekit/lifecycle"
)

const (
	// DefaultInitialCapacity is the slot count allocated by New when no
	// initial capacity is configured.
	DefaultInitialCapacity = 4

	// DefaultGrowthFactor is the capacity multiplier applied on overflow.
	DefaultGrowthFactor = 2.0

	// maxCapacity bounds growth arithmetic so repeated multiplication can
	// never wrap around int.
	maxCapacity = math.MaxInt >> 1
)

// Options configures a Vector.
type Options[T any] struct {
	// InitialCapacity is the slot count allocated up front. Must be positive.
	InitialCapacity int

	// GrowthFactor is the capacity multiplier applied when the vector is
	// full. Must be greater than 1.
	GrowthFactor float64

	// Policy is the element lifecycle policy. The zero value selects plain
	// assignment storage.
	Policy lifecycle.Policy[T]

	// Logger receives diagnostics for rejected operations.
	Logger *sparsekit.Logger
}

// Vector is a growable array of T.
//
// The zero value is not usable; construct with New. A Vector is not safe for
// concurrent mutation.
type Vector[T any] struct {
	data   []T // len(data) is the capacity
	length int
	policy lifecycle.Policy[T]
	growth float64
	logger *sparsekit.Logger
}

// New creates an empty Vector.
//
// It fails with sparsekit.ErrInvalidArguments if the configured initial
// capacity or growth factor is out of range, or with a
// sparsekit.LifecyclePairError if the lifecycle policy is half-specified.
func New[T any](optFns ...func(o *Options[T])) (*Vector[T], error) {
	opts := Options[T]{
		InitialCapacity: DefaultInitialCapacity,
		GrowthFactor:    DefaultGrowthFactor,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = sparsekit.DefaultLogger()
	}

	if !opts.Policy.Valid() {
		err := &sparsekit.LifecyclePairError{
			HasClone:   opts.Policy.Clone != nil,
			HasDispose: opts.Policy.Dispose != nil,
		}
		opts.Logger.WithOp("create").Warn("rejected vector", "error", err)
		return nil, err
	}

	if opts.InitialCapacity <= 0 || opts.GrowthFactor <= 1 {
		opts.Logger.WithOp("create").Warn("rejected vector",
			"initial_capacity", opts.InitialCapacity,
			"growth_factor", opts.GrowthFactor)
		return nil, sparsekit.ErrInvalidArguments
	}
	if opts.InitialCapacity > maxCapacity {
		return nil, &sparsekit.CapacityOverflowError{Requested: opts.InitialCapacity}
	}

	return &Vector[T]{
		data:   make([]T, opts.InitialCapacity),
		policy: opts.Policy,
		growth: opts.GrowthFactor,
		logger: opts.Logger,
	}, nil
}

// Len returns the number of live elements.
func (v *Vector[T]) Len() int { return v.length }

// Cap returns the allocated slot count.
func (v *Vector[T]) Cap() int { return len(v.data) }

// Policy returns the element lifecycle policy the vector was created with.
func (v *Vector[T]) Policy() lifecycle.Policy[T] { return v.policy }

// At returns the element at pos. The returned value is the stored
// representation itself; under the copying discipline it still belongs to
// the vector.
func (v *Vector[T]) At(pos int) (T, error) {
	if pos < 0 || pos >= v.length {
		var zero T
		return zero, &sparsekit.PositionError{Pos: pos, Length: v.length}
	}
	return v.data[pos], nil
}

// Ptr returns a pointer to the slot at pos. The pointer is invalidated by
// any operation that grows or reallocates the vector.
func (v *Vector[T]) Ptr(pos int) (*T, error) {
	if pos < 0 || pos >= v.length {
		return nil, &sparsekit.PositionError{Pos: pos, Length: v.length}
	}
	return &v.data[pos], nil
}

// Resize reallocates the buffer to hold exactly n elements and sets both
// length and capacity to n. Slots beyond the previous length hold zero
// values that count as live elements. Shrinking disposes the dropped
// elements first.
//
// Callers that want capacity-only growth use Reserve.
func (v *Vector[T]) Resize(n int) error {
	if n < 0 {
		v.logger.WithOp("resize").Warn("rejected resize", "n", n)
		return sparsekit.ErrInvalidArguments
	}
	if n > maxCapacity {
		return &sparsekit.CapacityOverflowError{Requested: n}
	}

	if n < v.length && v.policy.Copying() {
		for i := v.length - 1; i >= n; i-- {
			v.policy.Release(v.data[i])
		}
	}

	data := make([]T, n)
	copy(data, v.data[:min(v.length, n)])
	v.data = data
	v.length = n
	return nil
}

// Reserve grows capacity to at least n without changing length. It is a
// no-op when n does not exceed the current capacity.
func (v *Vector[T]) Reserve(n int) error {
	if n < 0 {
		v.logger.WithOp("reserve").Warn("rejected reserve", "n", n)
		return sparsekit.ErrInvalidArguments
	}
	if n <= len(v.data) {
		return nil
	}
	if n > maxCapacity {
		return &sparsekit.CapacityOverflowError{Requested: n}
	}

	data := make([]T, n)
	copy(data, v.data[:v.length])
	v.data = data
	return nil
}

// Clear destroys every live element, last to first, and resets length to
// zero. Capacity is retained.
func (v *Vector[T]) Clear() {
	if v.policy.Copying() {
		for i := v.length - 1; i >= 0; i-- {
			v.policy.Release(v.data[i])
		}
	}
	clear(v.data[:v.length])
	v.length = 0
}

// Destroy clears the vector and releases its buffer. The vector must not be
// used afterwards.
func (v *Vector[T]) Destroy() {
	v.Clear()
	v.data = nil
}

// grow raises capacity geometrically until it covers minCap. The buffer is
// reallocated at most once.
func (v *Vector[T]) grow(minCap int) error {
	newCap := len(v.data)
	for newCap < minCap {
		next := int(float64(newCap) * v.growth)
		if next <= newCap {
			next = newCap + 1
		}
		if next > maxCapacity {
			if minCap > maxCapacity {
				return &sparsekit.CapacityOverflowError{Requested: minCap}
			}
			next = minCap
		}
		newCap = next
	}
	if newCap == len(v.data) {
		return nil
	}

	data := make([]T, newCap)
	copy(data, v.data[:v.length])
	v.data = data
	return nil
}

// Insert places val at pos, shifting every element from pos onward one slot
// to the right. Relative order is preserved; cost is O(length). Positions at
// or beyond the current length fall through to Overwrite semantics.
func (v *Vector[T]) Insert(val T, pos int) error {
	if pos < 0 {
		v.logger.WithOp("insert").WithPos(pos).Warn("rejected insert")
		return sparsekit.ErrInvalidArguments
	}
	if pos >= v.length {
		return v.Overwrite(pos, val)
	}
	if err := v.grow(v.length + 1); err != nil {
		return err
	}

	// The shift relocates raw slots; only the final placement goes through
	// the lifecycle policy.
	copy(v.data[pos+1:v.length+1], v.data[pos:v.length])
	v.data[pos] = v.policy.Acquire(val)
	v.length++
	return nil
}

// InsertFast places val at pos in amortized O(1) by relocating the current
// occupant of pos to the tail slot. Relative order of existing elements is
// not preserved. Positions at or beyond the current length fall through to
// Overwrite semantics.
func (v *Vector[T]) InsertFast(val T, pos int) error {
	if pos < 0 {
		v.logger.WithOp("insert_fast").WithPos(pos).Warn("rejected insert")
		return sparsekit.ErrInvalidArguments
	}
	if pos >= v.length {
		return v.Overwrite(pos, val)
	}
	if err := v.grow(v.length + 1); err != nil {
		return err
	}

	v.data[v.length] = v.data[pos]
	v.data[pos] = v.policy.Acquire(val)
	v.length++
	return nil
}

// Remove extracts and returns the element at pos, shifting all subsequent
// elements left by one. Ownership of the returned copy transfers to the
// caller; under the copying discipline the caller becomes responsible for
// disposing it. Cost is O(length).
func (v *Vector[T]) Remove(pos int) (T, error) {
	var zero T
	if v.length == 0 {
		v.logger.WithOp("remove").Warn("remove on empty vector")
		return zero, sparsekit.ErrUnderflow
	}
	if pos < 0 || pos >= v.length {
		return zero, &sparsekit.PositionError{Pos: pos, Length: v.length}
	}

	out := v.data[pos]
	copy(v.data[pos:v.length-1], v.data[pos+1:v.length])
	v.length--
	v.data[v.length] = zero
	return out, nil
}

// RemoveFast extracts and returns the element at pos in O(1) by moving the
// current tail element into the vacated slot. Relative order is not
// preserved. Ownership of the returned copy transfers to the caller.
func (v *Vector[T]) RemoveFast(pos int) (T, error) {
	var zero T
	if v.length == 0 {
		v.logger.WithOp("remove_fast").Warn("remove on empty vector")
		return zero, sparsekit.ErrUnderflow
	}
	if pos < 0 || pos >= v.length {
		return zero, &sparsekit.PositionError{Pos: pos, Length: v.length}
	}

	out := v.data[pos]
	v.length--
	v.data[pos] = v.data[v.length]
	v.data[v.length] = zero
	return out, nil
}

// Delete removes the element at pos like Remove but disposes the extracted
// copy instead of returning it.
func (v *Vector[T]) Delete(pos int) error {
	out, err := v.Remove(pos)
	if err != nil {
		return err
	}
	v.policy.Release(out)
	return nil
}

// DeleteFast removes the element at pos like RemoveFast but disposes the
// extracted copy instead of returning it.
func (v *Vector[T]) DeleteFast(pos int) error {
	out, err := v.RemoveFast(pos)
	if err != nil {
		return err
	}
	v.policy.Release(out)
	return nil
}

// PushBack appends val. Amortized O(1).
func (v *Vector[T]) PushBack(val T) error {
	return v.InsertFast(val, v.length)
}

// PopBack removes and returns the last element. O(1).
func (v *Vector[T]) PopBack() (T, error) {
	return v.RemoveFast(v.length - 1)
}

// PushFront inserts val at position 0, preserving order. O(length).
func (v *Vector[T]) PushFront(val T) error {
	return v.Insert(val, 0)
}

// PopFront removes and returns the first element, preserving order.
// O(length).
func (v *Vector[T]) PopFront() (T, error) {
	return v.Remove(0)
}

// Overwrite destroys whatever occupies pos and places val there. When pos is
// at or beyond the current length, the vector grows to cover it and length
// becomes pos+1; any gap slots hold live zero values.
func (v *Vector[T]) Overwrite(pos int, val T) error {
	if pos < 0 {
		v.logger.WithOp("overwrite").WithPos(pos).Warn("rejected overwrite")
		return sparsekit.ErrInvalidArguments
	}
	if pos >= len(v.data) {
		if err := v.grow(pos + 1); err != nil {
			return err
		}
	}

	if pos < v.length {
		v.policy.Release(v.data[pos])
	}
	v.data[pos] = v.policy.Acquire(val)
	if pos >= v.length {
		v.length = pos + 1
	}
	return nil
}

// Move relocates the element at from into slot to, destroying any live
// element previously at to. The source slot is left holding a live zero
// value; no clone is made.
func (v *Vector[T]) Move(to, from int) error {
	if err := v.checkPos("move", to, from); err != nil {
		return err
	}
	if to == from {
		return nil
	}

	var zero T
	v.policy.Release(v.data[to])
	v.data[to] = v.data[from]
	v.data[from] = zero
	return nil
}

// CopySlot duplicates the element at from into slot to via the lifecycle
// policy, destroying any live element previously at to.
func (v *Vector[T]) CopySlot(to, from int) error {
	if err := v.checkPos("copy", to, from); err != nil {
		return err
	}
	if to == from {
		return nil
	}

	v.policy.Release(v.data[to])
	v.data[to] = v.policy.Acquire(v.data[from])
	return nil
}

// Swap exchanges the elements at p1 and p2 directly. Both slots hold live
// owned elements, so no clone or dispose is triggered.
func (v *Vector[T]) Swap(p1, p2 int) error {
	if err := v.checkPos("swap", p1, p2); err != nil {
		return err
	}
	v.data[p1], v.data[p2] = v.data[p2], v.data[p1]
	return nil
}

func (v *Vector[T]) checkPos(op string, positions ...int) error {
	for _, pos := range positions {
		if pos < 0 || pos >= v.length {
			err := &sparsekit.PositionError{Pos: pos, Length: v.length}
			v.logger.WithOp(op).WithPos(pos).Warn("rejected operation", "error", err)
			return err
		}
	}
	return nil
}

// Merge appends a fresh copy of every element of src onto v. src is left
// untouched.
func (v *Vector[T]) Merge(src *Vector[T]) error {
	if src == nil {
		v.logger.WithOp("merge").Warn("nil source vector")
		return sparsekit.ErrInvalidArguments
	}
	// Snapshot the source length so merging a vector onto itself appends
	// exactly its original elements.
	n := src.length
	if err := v.Reserve(v.length + n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := v.PushBack(src.data[i]); err != nil {
			return err
		}
	}
	return nil
}

// Filter returns a new vector, sharing the lifecycle policy and growth
// factor, holding fresh copies of the elements for which pred returns true.
// The original vector is untouched.
func (v *Vector[T]) Filter(pred func(val T) bool) (*Vector[T], error) {
	if pred == nil {
		v.logger.WithOp("filter").Warn("nil predicate")
		return nil, sparsekit.ErrInvalidArguments
	}

	out, err := New[T](func(o *Options[T]) {
		o.Policy = v.policy
		o.GrowthFactor = v.growth
		o.Logger = v.logger
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < v.length; i++ {
		if !pred(v.data[i]) {
			continue
		}
		if err := out.PushBack(v.data[i]); err != nil {
			out.Destroy()
			return nil, err
		}
	}
	return out, nil
}

// Each calls fn for every live element in index order.
func (v *Vector[T]) Each(fn func(pos int, val T)) {
	for i := 0; i < v.length; i++ {
		fn(i, v.data[i])
	}
}
