// Package lifecycle defines the element lifecycle policy shared by all
// sparsekit containers.
//
// A policy is a pair of callbacks: Clone produces an owned copy of a value,
// Dispose releases a copy previously produced by Clone. The pair must be
// supplied together or omitted together. An empty policy means the container
// stores values by plain assignment (the inline discipline); a populated
// policy means every insertion clones and every removal disposes (the
// copying discipline).
package lifecycle

// CloneFunc creates an owned copy of src. The returned value belongs to the
// container until it is disposed or handed back to the caller by a remove
// operation.
type CloneFunc[T any] func(src T) T

// DisposeFunc releases a copy previously produced by the paired CloneFunc.
//
// Containers may call Dispose on zero values that were materialized by
// Resize or Overwrite gap-filling; implementations must tolerate them.
type DisposeFunc[T any] func(copy T)

// Policy bundles the clone/dispose pair for one element type.
// The zero Policy is valid and selects the inline discipline.
type Policy[T any] struct {
	Clone   CloneFunc[T]
	Dispose DisposeFunc[T]
}

// Valid reports whether the policy is fully specified or fully absent.
// Half-specified policies are rejected by container constructors.
func (p Policy[T]) Valid() bool {
	return (p.Clone == nil) == (p.Dispose == nil)
}

// Copying reports whether the policy selects the copying discipline.
func (p Policy[T]) Copying() bool {
	return p.Clone != nil
}

// Acquire produces the container-owned representation of v: a clone under
// the copying discipline, v itself under the inline discipline.
func (p Policy[T]) Acquire(v T) T {
	if p.Clone != nil {
		return p.Clone(v)
	}
	return v
}

// Release disposes a container-owned copy. No-op under the inline discipline.
func (p Policy[T]) Release(v T) {
	if p.Dispose != nil {
		p.Dispose(v)
	}
}
