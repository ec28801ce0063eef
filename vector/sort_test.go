package vector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsekit"
)

func ascending(a, b int) int { return a - b }

func TestInsertionSort(t *testing.T) {
	v, err := New[int]()
	require.NoError(t, err)
	for _, x := range []int{3, 1, 4, 1, 5} {
		require.NoError(t, v.PushBack(x))
	}

	require.NoError(t, v.InsertionSort(ascending))
	assert.Equal(t, []int{1, 1, 3, 4, 5}, snapshot(v))
	assert.Equal(t, 5, v.Len())
	assert.True(t, v.CheckSorted(ascending))
}

func TestSortAlgorithms(t *testing.T) {
	rng := rand.New(rand.NewSource(4711))

	sorts := map[string]func(v *Vector[int]) error{
		"Insertion": func(v *Vector[int]) error { return v.InsertionSort(ascending) },
		"Bubble":    func(v *Vector[int]) error { return v.BubbleSort(ascending) },
		"Merge":     func(v *Vector[int]) error { return v.MergeSort(ascending) },
	}

	for name, sort := range sorts {
		t.Run(name, func(t *testing.T) {
			v, err := New[int]()
			require.NoError(t, err)
			input := make([]int, 200)
			for i := range input {
				input[i] = rng.Intn(50)
				require.NoError(t, v.PushBack(input[i]))
			}

			require.NoError(t, sort(v))

			assert.True(t, v.CheckSorted(ascending))
			// Permutation, not mutation.
			assert.ElementsMatch(t, input, snapshot(v))
		})
	}
}

func TestSortEdgeCases(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		v, err := New[int]()
		require.NoError(t, err)
		require.NoError(t, v.MergeSort(ascending))
		assert.True(t, v.CheckSorted(ascending))
	})

	t.Run("Single", func(t *testing.T) {
		v, err := New[int]()
		require.NoError(t, err)
		require.NoError(t, v.PushBack(1))
		require.NoError(t, v.BubbleSort(ascending))
		assert.Equal(t, []int{1}, snapshot(v))
	})

	t.Run("AlreadySorted", func(t *testing.T) {
		v, err := New[int]()
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			require.NoError(t, v.PushBack(i))
		}
		require.NoError(t, v.BubbleSort(ascending))
		assert.True(t, v.CheckSorted(ascending))
	})

	t.Run("NilComparator", func(t *testing.T) {
		v, err := New[int]()
		require.NoError(t, err)
		assert.ErrorIs(t, v.InsertionSort(nil), sparsekit.ErrInvalidArguments)
		assert.ErrorIs(t, v.BubbleSort(nil), sparsekit.ErrInvalidArguments)
		assert.ErrorIs(t, v.MergeSort(nil), sparsekit.ErrInvalidArguments)
		assert.False(t, v.CheckSorted(nil))
	})
}

func TestMergeSortStable(t *testing.T) {
	type pair struct {
		key int
		seq int
	}

	v, err := New[pair]()
	require.NoError(t, err)
	for i, k := range []int{2, 1, 2, 1, 2, 1} {
		require.NoError(t, v.PushBack(pair{key: k, seq: i}))
	}

	byKey := func(a, b pair) int { return a.key - b.key }
	require.NoError(t, v.MergeSort(byKey))

	got := snapshot(v)
	assert.Equal(t, []pair{{1, 1}, {1, 3}, {1, 5}, {2, 0}, {2, 2}, {2, 4}}, got)
}

func TestCheckSortedDetectsInversion(t *testing.T) {
	v, err := New[int]()
	require.NoError(t, err)
	for _, x := range []int{1, 3, 2} {
		require.NoError(t, v.PushBack(x))
	}
	assert.False(t, v.CheckSorted(ascending))
}

func BenchmarkMergeSort(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	input := make([]int, 1024)
	for i := range input {
		input[i] = rng.Int()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		v, _ := New[int]()
		for _, x := range input {
			_ = v.PushBack(x)
		}
		b.StartTimer()
		_ = v.MergeSort(ascending)
	}
}
