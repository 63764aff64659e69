package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	t.Run("no failures means no error", func(t *testing.T) {
		var v Validator
		assert.NoError(t, v.Err())
	})

	t.Run("collects every failure", func(t *testing.T) {
		var v Validator
		v.Fail("title", "title is required")
		v.Fail("priority", "priority must be one of low, medium, high, urgent")

		err := v.Err()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.Fields, 2)
		assert.Equal(t, "title", ve.Fields[0].Field)
		assert.Equal(t, "priority", ve.Fields[1].Field)
		assert.Equal(t, "validation failed: title, priority", err.Error())
	})
}

func TestSentinels(t *testing.T) {
	t.Run("NotFound wraps ErrNotFound", func(t *testing.T) {
		err := NotFound("task")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "task: not found", err.Error())
	})

	t.Run("Forbidden wraps ErrForbidden", func(t *testing.T) {
		err := Forbidden("only admins can delete tasks")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("wrapping survives another layer", func(t *testing.T) {
		err := fmt.Errorf("delete task: %w", NotFound("task"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
