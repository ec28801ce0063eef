package sparsekit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrapping(t *testing.T) {
	t.Run("LifecyclePair", func(t *testing.T) {
		err := &LifecyclePairError{HasClone: true}
		assert.ErrorIs(t, err, ErrInvalidArguments)
		assert.Contains(t, err.Error(), "clone=true")
	})

	t.Run("Position", func(t *testing.T) {
		err := &PositionError{Pos: 9, Length: 3}
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.Contains(t, err.Error(), "pos 9")
	})

	t.Run("CapacityOverflow", func(t *testing.T) {
		err := &CapacityOverflowError{Requested: 1 << 62}
		assert.ErrorIs(t, err, ErrCapacityOverflow)
	})

	t.Run("SentinelsDistinct", func(t *testing.T) {
		assert.False(t, errors.Is(ErrUnderflow, ErrInvalidArguments))
		assert.False(t, errors.Is(ErrOutOfRange, ErrUnderflow))
	})
}
