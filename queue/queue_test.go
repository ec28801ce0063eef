package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsekit"
)

func TestPriorityQueue(t *testing.T) {
	t.Run("MinOrder", func(t *testing.T) {
		q, err := New(func(a, b int) bool { return a < b })
		require.NoError(t, err)

		for _, x := range []int{5, 1, 4, 2, 3} {
			q.Push(x)
		}
		assert.Equal(t, 5, q.Len())

		top, err := q.Peek()
		require.NoError(t, err)
		assert.Equal(t, 1, top)

		for want := 1; want <= 5; want++ {
			got, err := q.Pop()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("MaxOrder", func(t *testing.T) {
		q, err := New(func(a, b float32) bool { return a > b })
		require.NoError(t, err)

		q.Push(0.5)
		q.Push(1.5)
		q.Push(1.0)

		got, err := q.Pop()
		require.NoError(t, err)
		assert.Equal(t, float32(1.5), got)
	})

	t.Run("Underflow", func(t *testing.T) {
		q, err := New(func(a, b int) bool { return a < b })
		require.NoError(t, err)

		_, err = q.Pop()
		assert.ErrorIs(t, err, sparsekit.ErrUnderflow)
		_, err = q.Peek()
		assert.ErrorIs(t, err, sparsekit.ErrUnderflow)
	})

	t.Run("NilLess", func(t *testing.T) {
		_, err := New[int](nil)
		assert.ErrorIs(t, err, sparsekit.ErrInvalidArguments)
	})
}
