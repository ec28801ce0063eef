package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyValid(t *testing.T) {
	clone := func(s *string) *string { c := *s; return &c }
	dispose := func(*string) {}

	t.Run("Empty", func(t *testing.T) {
		var p Policy[*string]
		assert.True(t, p.Valid())
		assert.False(t, p.Copying())
	})

	t.Run("Full", func(t *testing.T) {
		p := Policy[*string]{Clone: clone, Dispose: dispose}
		assert.True(t, p.Valid())
		assert.True(t, p.Copying())
	})

	t.Run("HalfSpecified", func(t *testing.T) {
		assert.False(t, Policy[*string]{Clone: clone}.Valid())
		assert.False(t, Policy[*string]{Dispose: dispose}.Valid())
	})
}

func TestPolicyAcquireRelease(t *testing.T) {
	t.Run("InlineIdentity", func(t *testing.T) {
		var p Policy[int]
		assert.Equal(t, 42, p.Acquire(42))
		p.Release(42) // no-op
	})

	t.Run("CopyingClones", func(t *testing.T) {
		clones, disposes := 0, 0
		p := Policy[*int]{
			Clone:   func(src *int) *int { clones++; c := *src; return &c },
			Dispose: func(*int) { disposes++ },
		}

		orig := 7
		copy := p.Acquire(&orig)
		assert.NotSame(t, &orig, copy)
		assert.Equal(t, 7, *copy)

		p.Release(copy)
		assert.Equal(t, 1, clones)
		assert.Equal(t, 1, disposes)
	})
}
