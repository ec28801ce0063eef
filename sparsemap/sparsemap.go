// Package sparsemap implements a separate-chaining hash map.
//
// The bucket table is a vector.Vector of chain-head slots; the first item of
// every chain lives inside the table itself and overflow items are
// heap-allocated nodes linked off the head. A roaring bitmap tracks which
// buckets are occupied, so lookups into empty buckets resolve without
// touching the table. The table length is always a power of two and bucket
// selection masks the key hash with length-1.
//
// Key and value lifecycles are governed independently by two
// lifecycle.Policy pairs. In multimap mode duplicate keys coexist; otherwise
// an insert over an existing key replaces its key/value copies in place.
package sparsemap

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/sparsekit"
	"github.com/hupe1980/sparsekit/lifecycle"
	"github.com/hupe1980/sparsekit/vector"
)

const (
	// DefaultTableSize is the initial bucket-table length.
	DefaultTableSize = 8

	// DefaultMaxLoadFactor is the item/bucket ratio that triggers a resize.
	DefaultMaxLoadFactor = 0.75
)

// HashFunc maps a key to a 64-bit hash. Equal keys must hash equally.
type HashFunc[K any] func(key K) uint64

// EqualFunc reports whether two keys are equal.
type EqualFunc[K any] func(a, b K) bool

// Item is one key-value pair. The first item of a bucket's chain is stored
// inside the bucket table; overflow items are separately allocated nodes.
//
// Item references returned by Insert and Search point into live map storage
// and are invalidated by any subsequent resize or rehash.
type Item[K, V any] struct {
	Key  K
	Data V

	next *Item[K, V]
}

// Next returns the following item in the same bucket's chain, or nil. In
// multimap mode duplicates of a key sit on the same chain, so callers can
// walk duplicates starting from a Search hit. Colliding non-equal keys share
// the chain too, so the walk must still filter by key.
func (it *Item[K, V]) Next() *Item[K, V] { return it.next }

// Options configures a SparseMap.
type Options[K, V any] struct {
	// TableSize is the initial bucket-table length; it is rounded up to the
	// next power of two. Must be positive.
	TableSize int

	// MaxLoadFactor is the item/bucket ratio above which an insert grows
	// the table. Must be positive.
	MaxLoadFactor float64

	// Multimap selects whether duplicate keys coexist. When false, an
	// insert over an existing key overwrites its key and value copies in
	// place.
	Multimap bool

	// KeyPolicy and DataPolicy govern key and value copies independently.
	KeyPolicy  lifecycle.Policy[K]
	DataPolicy lifecycle.Policy[V]

	// Logger receives diagnostics for rejected operations.
	Logger *sparsekit.Logger

	// Metrics receives per-operation measurements.
	Metrics sparsekit.MetricsCollector
}

// SparseMap is a separate-chaining hash map from K to V.
//
// Not safe for concurrent mutation; construct with New.
type SparseMap[K, V any] struct {
	buckets    *vector.Vector[Item[K, V]]
	occupancy  *roaring.Bitmap
	hash       HashFunc[K]
	equal      EqualFunc[K]
	keyPolicy  lifecycle.Policy[K]
	dataPolicy lifecycle.Policy[V]
	multimap   bool
	maxLoad    float64
	count      int
	logger     *sparsekit.Logger
	metrics    sparsekit.MetricsCollector
}

// New creates an empty SparseMap.
//
// It fails with sparsekit.ErrInvalidArguments if hash or equal is nil or the
// configured table size or load factor is out of range, and with a
// sparsekit.LifecyclePairError if either lifecycle policy is half-specified.
func New[K, V any](hash HashFunc[K], equal EqualFunc[K], optFns ...func(o *Options[K, V])) (*SparseMap[K, V], error) {
	opts := Options[K, V]{
		TableSize:     DefaultTableSize,
		MaxLoadFactor: DefaultMaxLoadFactor,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = sparsekit.DefaultLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = sparsekit.NoopMetricsCollector{}
	}

	if hash == nil || equal == nil || opts.TableSize <= 0 || opts.MaxLoadFactor <= 0 {
		opts.Logger.WithOp("create").Warn("rejected map",
			"has_hash", hash != nil,
			"has_equal", equal != nil,
			"table_size", opts.TableSize,
			"max_load_factor", opts.MaxLoadFactor)
		return nil, sparsekit.ErrInvalidArguments
	}
	if !opts.KeyPolicy.Valid() {
		return nil, &sparsekit.LifecyclePairError{
			HasClone:   opts.KeyPolicy.Clone != nil,
			HasDispose: opts.KeyPolicy.Dispose != nil,
		}
	}
	if !opts.DataPolicy.Valid() {
		return nil, &sparsekit.LifecyclePairError{
			HasClone:   opts.DataPolicy.Clone != nil,
			HasDispose: opts.DataPolicy.Dispose != nil,
		}
	}

	buckets, err := newBucketTable[K, V](nextPowerOfTwo(opts.TableSize), opts.Logger)
	if err != nil {
		return nil, err
	}

	return &SparseMap[K, V]{
		buckets:    buckets,
		occupancy:  roaring.New(),
		hash:       hash,
		equal:      equal,
		keyPolicy:  opts.KeyPolicy,
		dataPolicy: opts.DataPolicy,
		multimap:   opts.Multimap,
		maxLoad:    opts.MaxLoadFactor,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}, nil
}

// newBucketTable builds a zeroed table of size chain-head slots. The bucket
// vector carries no lifecycle policy: the map manages key/value copies
// itself and relocates items with raw assignment during rehash.
func newBucketTable[K, V any](size int, logger *sparsekit.Logger) (*vector.Vector[Item[K, V]], error) {
	buckets, err := vector.New[Item[K, V]](func(o *vector.Options[Item[K, V]]) {
		o.InitialCapacity = size
		o.Logger = logger
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sparsekit.ErrInvalidObject, err)
	}
	if err := buckets.Resize(size); err != nil {
		return nil, err
	}
	return buckets, nil
}

// Len returns the number of live key-value pairs.
func (m *SparseMap[K, V]) Len() int { return m.count }

// TableSize returns the current bucket-table length. Always a power of two.
func (m *SparseMap[K, V]) TableSize() int { return m.buckets.Len() }

// LoadFactor returns the current item/bucket ratio.
func (m *SparseMap[K, V]) LoadFactor() float64 {
	return float64(m.count) / float64(m.buckets.Len())
}

// Multimap reports whether duplicate keys coexist.
func (m *SparseMap[K, V]) Multimap() bool { return m.multimap }

// OccupiedBuckets returns the number of buckets holding at least one item.
func (m *SparseMap[K, V]) OccupiedBuckets() int {
	return int(m.occupancy.GetCardinality())
}

func (m *SparseMap[K, V]) bucketIndex(key K) uint32 {
	return uint32(m.hash(key) & uint64(m.buckets.Len()-1))
}

// Insert places key/value into the map and returns a reference to the stored
// item. If the insert would push the load factor above the configured
// maximum, the table doubles and rehashes first. In non-multimap mode an
// existing entry with an equal key has its key and value copies replaced in
// place; no new entry is created.
func (m *SparseMap[K, V]) Insert(key K, value V) (*Item[K, V], error) {
	start := time.Now()
	item, err := m.insert(key, value)
	m.metrics.RecordInsert(time.Since(start), err)
	return item, err
}

func (m *SparseMap[K, V]) insert(key K, value V) (*Item[K, V], error) {
	if float64(m.count+1) > m.maxLoad*float64(m.buckets.Len()) {
		if err := m.resize(m.buckets.Len() * 2); err != nil {
			return nil, err
		}
	}

	if !m.multimap {
		if it, ok := m.lookup(key); ok {
			m.keyPolicy.Release(it.Key)
			m.dataPolicy.Release(it.Data)
			it.Key = m.keyPolicy.Acquire(key)
			it.Data = m.dataPolicy.Acquire(value)
			return it, nil
		}
	}

	it := placeOwned(m.buckets, m.occupancy, m.bucketIndex(key),
		m.keyPolicy.Acquire(key), m.dataPolicy.Acquire(value))
	m.count++
	return it, nil
}

// placeOwned stores an already-owned key/value pair into the bucket at pos.
// It is the shared low-level placement routine of insert and rehash: no
// load-factor check and no lifecycle copy happens here.
func placeOwned[K, V any](buckets *vector.Vector[Item[K, V]], occupancy *roaring.Bitmap, pos uint32, key K, data V) *Item[K, V] {
	head, _ := buckets.Ptr(int(pos))

	if !occupancy.Contains(pos) {
		head.Key = key
		head.Data = data
		head.next = nil
		occupancy.Add(pos)
		return head
	}

	node := &Item[K, V]{Key: key, Data: data}
	tail := head
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = node
	return node
}

// Search returns the first item whose key equals key. An unoccupied bucket
// resolves the miss without walking the table; otherwise the bucket's chain
// is scanned with the configured equality function.
func (m *SparseMap[K, V]) Search(key K) (*Item[K, V], bool) {
	start := time.Now()
	it, ok := m.lookup(key)
	m.metrics.RecordSearch(ok, time.Since(start))
	return it, ok
}

func (m *SparseMap[K, V]) lookup(key K) (*Item[K, V], bool) {
	pos := m.bucketIndex(key)
	if !m.occupancy.Contains(pos) {
		return nil, false
	}

	head, _ := m.buckets.Ptr(int(pos))
	for it := head; it != nil; it = it.next {
		if m.equal(it.Key, key) {
			return it, true
		}
	}
	return nil, false
}

// Delete removes every item whose key equals key (at most one in
// non-multimap mode) and returns the number removed. Key and value copies of
// removed items are disposed. When the last item leaves a bucket, the
// bucket's occupancy bit is cleared.
func (m *SparseMap[K, V]) Delete(key K) int {
	start := time.Now()
	removed := m.delete(key)
	m.metrics.RecordDelete(removed, time.Since(start))
	return removed
}

func (m *SparseMap[K, V]) delete(key K) int {
	pos := m.bucketIndex(key)
	if !m.occupancy.Contains(pos) {
		return 0
	}

	head, _ := m.buckets.Ptr(int(pos))
	removed := 0

	// Matching heads first: each removal promotes the successor into the
	// table slot, so the new head must be re-checked.
	for m.equal(head.Key, key) {
		m.keyPolicy.Release(head.Key)
		m.dataPolicy.Release(head.Data)
		removed++

		if head.next == nil {
			*head = Item[K, V]{}
			m.occupancy.Remove(pos)
			m.count -= removed
			return removed
		}
		*head = *head.next

		if !m.multimap {
			m.count -= removed
			return removed
		}
	}

	prev, cur := head, head.next
	for cur != nil {
		if !m.equal(cur.Key, key) {
			prev, cur = cur, cur.next
			continue
		}

		m.keyPolicy.Release(cur.Key)
		m.dataPolicy.Release(cur.Data)
		removed++
		prev.next = cur.next
		cur = prev.next

		if !m.multimap {
			break
		}
	}

	m.count -= removed
	return removed
}

// Resize grows or rebuilds the bucket table to hold at least n buckets,
// rounded up to the next power of two, and rehashes every item. The new
// table is fully built before it replaces the old one, so a failed resize
// leaves the map unchanged.
func (m *SparseMap[K, V]) Resize(n int) error {
	start := time.Now()
	err := m.resize(n)
	m.metrics.RecordResize(m.buckets.Len(), time.Since(start), err)
	return err
}

func (m *SparseMap[K, V]) resize(n int) error {
	if n <= 0 {
		m.logger.WithOp("resize").Warn("rejected resize", "n", n)
		return sparsekit.ErrInvalidArguments
	}

	size := nextPowerOfTwo(n)
	if size < n {
		// Rounding up wrapped around int.
		return &sparsekit.CapacityOverflowError{Requested: n}
	}
	newBuckets, err := newBucketTable[K, V](size, m.logger)
	if err != nil {
		return err
	}
	newOccupancy := roaring.New()
	mask := uint64(size - 1)

	// Relocate, don't recopy: ownership of every key/value copy transfers
	// to the new table by raw assignment.
	iter := m.occupancy.Iterator()
	for iter.HasNext() {
		pos := iter.Next()
		head, _ := m.buckets.Ptr(int(pos))
		for it := head; it != nil; it = it.next {
			newPos := uint32(m.hash(it.Key) & mask)
			placeOwned(newBuckets, newOccupancy, newPos, it.Key, it.Data)
		}
	}

	m.buckets.Destroy()
	m.buckets = newBuckets
	m.occupancy = newOccupancy
	return nil
}

// Each calls fn for every live item in bucket order until fn returns false.
// The map must not be mutated during iteration.
func (m *SparseMap[K, V]) Each(fn func(item *Item[K, V]) bool) {
	iter := m.occupancy.Iterator()
	for iter.HasNext() {
		head, _ := m.buckets.Ptr(int(iter.Next()))
		for it := head; it != nil; it = it.next {
			if !fn(it) {
				return
			}
		}
	}
}

// Destroy disposes every key and value copy and releases the bucket table.
// The map must not be used afterwards.
func (m *SparseMap[K, V]) Destroy() {
	iter := m.occupancy.Iterator()
	for iter.HasNext() {
		head, _ := m.buckets.Ptr(int(iter.Next()))
		for it := head; it != nil; it = it.next {
			m.keyPolicy.Release(it.Key)
			m.dataPolicy.Release(it.Data)
		}
	}

	m.buckets.Destroy()
	m.occupancy = nil
	m.count = 0
}

// nextPowerOfTwo rounds n up to the nearest power of two.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
