package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContourError(t *testing.T) {
	err := NewError(ErrInvalidLevel, "filled_contour", "min %g >= max %g", 2.0, 1.0)

	assert.ErrorIs(t, err, ErrInvalidLevel)
	assert.NotErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, "invalid level in filled_contour: min 2 >= max 1", err.Error())

	wrapped := fmt.Errorf("query failed: %w", err)
	assert.ErrorIs(t, wrapped, ErrInvalidLevel)
	assert.Equal(t, ErrInvalidLevel, KindOf(wrapped))
	assert.Nil(t, KindOf(errors.New("plain")))
}

func TestContourErrorWithoutCause(t *testing.T) {
	err := &ContourError{Kind: ErrInvalidGrid, Operation: "from_uniform"}
	assert.Equal(t, "invalid grid in from_uniform", err.Error())
	assert.ErrorIs(t, err, ErrInvalidGrid)
}
