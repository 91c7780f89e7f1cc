package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	err := New(CodeNameConflict, "example name already in use")
	assert.True(t, HasCode(err, CodeNameConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(nil, CodeNameConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNameConflict))
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := New(CodeVersionConflict, "stale read")
	outer := fmt.Errorf("update example: %w", inner)
	assert.True(t, HasCode(outer, CodeVersionConflict))
	assert.Equal(t, CodeVersionConflict, CodeOf(outer))
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("connection reset")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Wrap(cause, CodeInternal, "failed to create example")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, CodeOf(err))
}

func TestWithDetails(t *testing.T) {
	err := New(CodeNameConflict, "example name already in use").
		With("name", "Ex1").
		With("existing_id", "abc-123")

	details := Details(err)
	require.NotNil(t, details)
	assert.Equal(t, "Ex1", details["name"])
	assert.Equal(t, "abc-123", details["existing_id"])

	assert.Nil(t, Details(errors.New("plain")))
}
