package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	t.Run("Wraps the underlying error", func(t *testing.T) {
		underlying := errors.New("connection refused")
		err := NewError("insert transcript", underlying)

		assert.Error(t, err)
		assert.Equal(t, "error in insert transcript: connection refused", err.Error())
		assert.True(t, errors.Is(err, underlying), "Expected the underlying error to be unwrappable")
	})

	t.Run("Preserves wrapped error chains", func(t *testing.T) {
		root := errors.New("no rows in result set")
		middle := fmt.Errorf("select entity: %w", root)
		err := NewError("load entities sql", middle)

		assert.True(t, errors.Is(err, root), "Expected the root error to survive double wrapping")
	})
}
