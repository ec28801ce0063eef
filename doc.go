// Package sparsekit provides generic in-memory containers for Go.
//
// Sparsekit is a small container library built around two structures: a
// growable array (vector.Vector) and a separate-chaining hash map
// (sparsemap.SparseMap) that uses the vector for its bucket table. Both are
// parameterized over an element lifecycle policy (lifecycle.Policy) that
// decides whether elements are stored by plain assignment or via explicit
// clone/dispose callbacks.
//
// # Quick Start
//
//	v, _ := vector.New[int]()
//	_ = v.PushBack(3)
//	_ = v.PushBack(1)
//	_ = v.PushBack(4)
//	_ = v.InsertionSort(func(a, b int) int { return a - b })
//
//	m, _ := sparsemap.New[string, int](sparsemap.Hasher[string](), sparsemap.Equal[string]())
//	_, _ = m.Insert("answer", 42)
//	item, ok := m.Search("answer")
//
// # Ownership Model
//
// Containers own every element copy they create. With a copying policy, each
// insertion clones the value into container-owned storage and each removal
// either disposes the copy (Delete variants) or transfers ownership of it to
// the caller (Remove variants). Search results and item references point into
// live container storage and must not outlive the next mutation that resizes
// the container.
//
// # Concurrency
//
// No container in this module is safe for concurrent mutation. Callers that
// share a container across goroutines must provide their own locking.
//
// This package itself holds the shared ambient surface: the error taxonomy,
// the slog-backed Logger, and the MetricsCollector interface.
package sparsekit
