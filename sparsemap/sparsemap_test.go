package sparsemap

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsekit"
	"github.com/hupe1980/sparsekit/lifecycle"
)

func newStringMap(t *testing.T, optFns ...func(o *Options[string, int])) *SparseMap[string, int] {
	t.Helper()
	m, err := New[string, int](Hasher[string](), Equal[string](), optFns...)
	require.NoError(t, err)
	return m
}

// collidingMap hashes every key to the same bucket, forcing chains.
func collidingMap(t *testing.T, optFns ...func(o *Options[string, int])) *SparseMap[string, int] {
	t.Helper()
	m, err := New[string, int](func(string) uint64 { return 0 }, Equal[string](), optFns...)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	t.Run("MissingHash", func(t *testing.T) {
		_, err := New[string, int](nil, Equal[string]())
		assert.ErrorIs(t, err, sparsekit.ErrInvalidArguments)
	})

	t.Run("MissingEqual", func(t *testing.T) {
		_, err := New[string, int](Hasher[string](), nil)
		assert.ErrorIs(t, err, sparsekit.ErrInvalidArguments)
	})

	t.Run("BadLoadFactor", func(t *testing.T) {
		_, err := New[string, int](Hasher[string](), Equal[string](),
			func(o *Options[string, int]) { o.MaxLoadFactor = 0 })
		assert.ErrorIs(t, err, sparsekit.ErrInvalidArguments)
	})

	t.Run("HalfSpecifiedKeyPolicy", func(t *testing.T) {
		_, err := New[string, int](Hasher[string](), Equal[string](),
			func(o *Options[string, int]) {
				o.KeyPolicy.Dispose = func(string) {}
			})
		assert.ErrorIs(t, err, sparsekit.ErrInvalidArguments)
	})

	t.Run("TableSizeRoundedToPowerOfTwo", func(t *testing.T) {
		m := newStringMap(t, func(o *Options[string, int]) { o.TableSize = 9 })
		assert.Equal(t, 16, m.TableSize())
	})
}

func TestInsertSearchDelete(t *testing.T) {
	m := newStringMap(t)

	it, err := m.Insert("alpha", 1)
	require.NoError(t, err)
	assert.Equal(t, "alpha", it.Key)
	assert.Equal(t, 1, it.Data)
	assert.Equal(t, 1, m.Len())

	got, ok := m.Search("alpha")
	require.True(t, ok)
	assert.Equal(t, 1, got.Data)

	_, ok = m.Search("beta")
	assert.False(t, ok)

	assert.Equal(t, 1, m.Delete("alpha"))
	assert.Equal(t, 0, m.Len())

	_, ok = m.Search("alpha")
	assert.False(t, ok)

	assert.Equal(t, 0, m.Delete("alpha"))
}

func TestInsertOverwritesExistingKey(t *testing.T) {
	m := newStringMap(t)

	_, err := m.Insert("k", 1)
	require.NoError(t, err)
	_, err = m.Insert("k", 2)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
	got, ok := m.Search("k")
	require.True(t, ok)
	assert.Equal(t, 2, got.Data)
}

func TestMultimap(t *testing.T) {
	m := newStringMap(t, func(o *Options[string, int]) { o.Multimap = true })

	for i := 1; i <= 3; i++ {
		_, err := m.Insert("dup", i)
		require.NoError(t, err)
	}
	_, err := m.Insert("other", 9)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())

	it, ok := m.Search("dup")
	require.True(t, ok)
	values := map[int]bool{}
	for ; it != nil; it = it.Next() {
		if it.Key == "dup" {
			values[it.Data] = true
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, values)

	// One delete removes every duplicate.
	assert.Equal(t, 3, m.Delete("dup"))
	assert.Equal(t, 1, m.Len())
	_, ok = m.Search("dup")
	assert.False(t, ok)

	got, ok := m.Search("other")
	require.True(t, ok)
	assert.Equal(t, 9, got.Data)
}

func TestChainWalkInterleavesCollidingKeys(t *testing.T) {
	// Colliding non-equal keys share the chain with a key's duplicates, so a
	// walk from a Search hit must filter by key.
	m := collidingMap(t, func(o *Options[string, int]) { o.Multimap = true })
	_, err := m.Insert("dup", 1)
	require.NoError(t, err)
	_, err = m.Insert("other", 99)
	require.NoError(t, err)
	_, err = m.Insert("dup", 2)
	require.NoError(t, err)

	it, ok := m.Search("dup")
	require.True(t, ok)

	var dupValues, chainLen int
	for ; it != nil; it = it.Next() {
		chainLen++
		if it.Key == "dup" {
			dupValues += it.Data
		}
	}
	assert.Equal(t, 3, chainLen)
	assert.Equal(t, 3, dupValues)
}

func TestChainDeletion(t *testing.T) {
	t.Run("HeadWithSuccessor", func(t *testing.T) {
		m := collidingMap(t)
		for i, k := range []string{"a", "b", "c"} {
			_, err := m.Insert(k, i)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, m.OccupiedBuckets())

		// "a" is the chain head stored in the table slot itself; its
		// successor must be promoted into the slot.
		assert.Equal(t, 1, m.Delete("a"))
		for _, k := range []string{"b", "c"} {
			_, ok := m.Search(k)
			assert.True(t, ok, k)
		}
		assert.Equal(t, 2, m.Len())
	})

	t.Run("MiddleNode", func(t *testing.T) {
		m := collidingMap(t)
		for i, k := range []string{"a", "b", "c"} {
			_, err := m.Insert(k, i)
			require.NoError(t, err)
		}

		assert.Equal(t, 1, m.Delete("b"))
		for _, k := range []string{"a", "c"} {
			_, ok := m.Search(k)
			assert.True(t, ok, k)
		}
	})

	t.Run("SoleItemClearsOccupancy", func(t *testing.T) {
		m := collidingMap(t)
		_, err := m.Insert("only", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, m.OccupiedBuckets())

		assert.Equal(t, 1, m.Delete("only"))
		assert.Equal(t, 0, m.OccupiedBuckets())

		_, ok := m.Search("only")
		assert.False(t, ok)
	})
}

func TestLoadFactorBound(t *testing.T) {
	m := newStringMap(t, func(o *Options[string, int]) {
		o.TableSize = 8
		o.MaxLoadFactor = 0.75
	})

	for i := 0; i < 100; i++ {
		_, err := m.Insert(fmt.Sprintf("key-%d", i), i)
		require.NoError(t, err)
		assert.LessOrEqual(t, m.LoadFactor(), 0.75)
	}
	assert.Equal(t, 100, m.Len())
}

func TestGrowthScenario(t *testing.T) {
	// Initial table 8, max load 0.75: the 7th insert would reach 7/8 and
	// must be preceded by a doubling.
	m := newStringMap(t, func(o *Options[string, int]) {
		o.TableSize = 8
		o.MaxLoadFactor = 0.75
	})

	for i := 0; i < 6; i++ {
		_, err := m.Insert(fmt.Sprintf("key-%d", i), i)
		require.NoError(t, err)
	}
	assert.Equal(t, 8, m.TableSize())

	_, err := m.Insert("key-6", 6)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.TableSize(), 16)

	for i := 0; i < 7; i++ {
		got, ok := m.Search(fmt.Sprintf("key-%d", i))
		require.True(t, ok)
		assert.Equal(t, i, got.Data)
	}
}

func TestLoadFactorBoundary(t *testing.T) {
	// Table exactly at max load admits no further insert without growth.
	m := newStringMap(t, func(o *Options[string, int]) {
		o.TableSize = 8
		o.MaxLoadFactor = 0.5
	})

	for i := 0; i < 4; i++ {
		_, err := m.Insert(fmt.Sprintf("key-%d", i), i)
		require.NoError(t, err)
	}
	assert.Equal(t, 8, m.TableSize())
	assert.Equal(t, 0.5, m.LoadFactor())

	_, err := m.Insert("key-4", 4)
	require.NoError(t, err)
	assert.Equal(t, 16, m.TableSize())
}

func TestPowerOfTwoInvariant(t *testing.T) {
	isPowerOfTwo := func(n int) bool { return n > 0 && n&(n-1) == 0 }

	m := newStringMap(t, func(o *Options[string, int]) { o.TableSize = 8 })
	assert.True(t, isPowerOfTwo(m.TableSize()))

	for i := 0; i < 500; i++ {
		_, err := m.Insert(fmt.Sprintf("key-%d", i), i)
		require.NoError(t, err)
		assert.True(t, isPowerOfTwo(m.TableSize()))
	}

	// Explicit resize rounds the request up to the next power of two, even
	// when shrinking below the load-factor threshold.
	require.NoError(t, m.Resize(100))
	assert.Equal(t, 128, m.TableSize())
	assert.Equal(t, 500, m.Len())

	assert.ErrorIs(t, m.Resize(0), sparsekit.ErrInvalidArguments)
}

func TestResizeOverflowLeavesMapUnchanged(t *testing.T) {
	m := newStringMap(t)
	for i := 0; i < 10; i++ {
		_, err := m.Insert(fmt.Sprintf("key-%d", i), i)
		require.NoError(t, err)
	}
	tableSize := m.TableSize()

	// A request this large cannot be allocated; it must fail with an error,
	// never panic, and must not touch the bucket table.
	err := m.Resize(math.MaxInt>>1 + 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, sparsekit.ErrCapacityOverflow)

	assert.Equal(t, tableSize, m.TableSize())
	assert.Equal(t, 10, m.Len())
	for i := 0; i < 10; i++ {
		got, ok := m.Search(fmt.Sprintf("key-%d", i))
		require.True(t, ok)
		assert.Equal(t, i, got.Data)
	}
}

func TestResizePreservesItems(t *testing.T) {
	m := newStringMap(t)
	for i := 0; i < 50; i++ {
		_, err := m.Insert(fmt.Sprintf("key-%d", i), i)
		require.NoError(t, err)
	}

	require.NoError(t, m.Resize(256))
	assert.Equal(t, 256, m.TableSize())
	assert.Equal(t, 50, m.Len())

	for i := 0; i < 50; i++ {
		got, ok := m.Search(fmt.Sprintf("key-%d", i))
		require.True(t, ok)
		assert.Equal(t, i, got.Data)
	}
}

func TestLifecycleSymmetry(t *testing.T) {
	keyClones, keyDisposes := 0, 0
	dataClones, dataDisposes := 0, 0

	m, err := New[string, *int](Hasher[string](), Equal[string](),
		func(o *Options[string, *int]) {
			o.TableSize = 4
			o.KeyPolicy = lifecycle.Policy[string]{
				Clone:   func(src string) string { keyClones++; return src },
				Dispose: func(string) { keyDisposes++ },
			}
			o.DataPolicy = lifecycle.Policy[*int]{
				Clone: func(src *int) *int {
					dataClones++
					if src == nil {
						return nil
					}
					cp := *src
					return &cp
				},
				Dispose: func(*int) { dataDisposes++ },
			}
		})
	require.NoError(t, err)

	// Enough inserts to force several rehashes; relocation must not clone
	// or dispose.
	for i := 0; i < 40; i++ {
		val := i
		_, err := m.Insert(fmt.Sprintf("key-%d", i), &val)
		require.NoError(t, err)
	}
	assert.Equal(t, 40, keyClones)
	assert.Equal(t, 40, dataClones)
	assert.Equal(t, 0, keyDisposes)
	assert.Equal(t, 0, dataDisposes)

	// In-place overwrite disposes the old pair and clones the new one.
	val := -1
	_, err = m.Insert("key-0", &val)
	require.NoError(t, err)
	assert.Equal(t, 41, keyClones)
	assert.Equal(t, 1, keyDisposes)

	assert.Equal(t, 1, m.Delete("key-1"))

	m.Destroy()
	assert.Equal(t, keyClones, keyDisposes)
	assert.Equal(t, dataClones, dataDisposes)
}

func TestEach(t *testing.T) {
	m := newStringMap(t)
	for i := 0; i < 10; i++ {
		_, err := m.Insert(fmt.Sprintf("key-%d", i), i)
		require.NoError(t, err)
	}

	seen := 0
	m.Each(func(item *Item[string, int]) bool {
		seen++
		return true
	})
	assert.Equal(t, 10, seen)

	// Early stop.
	seen = 0
	m.Each(func(item *Item[string, int]) bool {
		seen++
		return seen < 3
	})
	assert.Equal(t, 3, seen)
}

func TestMetricsRecorded(t *testing.T) {
	collector := &sparsekit.BasicMetricsCollector{}
	m := newStringMap(t, func(o *Options[string, int]) { o.Metrics = collector })

	_, err := m.Insert("a", 1)
	require.NoError(t, err)
	m.Search("a")
	m.Search("missing")
	m.Delete("a")

	stats := collector.GetStats()
	assert.Equal(t, int64(1), stats.InsertCount)
	assert.Equal(t, int64(2), stats.SearchCount)
	assert.Equal(t, int64(1), stats.SearchHits)
	assert.Equal(t, int64(1), stats.DeleteCount)
	assert.Equal(t, int64(1), stats.DeleteItems)
}

func TestBytesHelpers(t *testing.T) {
	m, err := New[[]byte, int](BytesHasher(), BytesEqual())
	require.NoError(t, err)

	_, err = m.Insert([]byte("key"), 7)
	require.NoError(t, err)

	got, ok := m.Search([]byte("key"))
	require.True(t, ok)
	assert.Equal(t, 7, got.Data)
}

func BenchmarkInsert(b *testing.B) {
	m, _ := New[int, int](Hasher[int](), Equal[int]())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Insert(i, i)
	}
}

func BenchmarkSearch(b *testing.B) {
	m, _ := New[int, int](Hasher[int](), Equal[int]())
	for i := 0; i < 1024; i++ {
		_, _ = m.Insert(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Search(i & 1023)
	}
}
