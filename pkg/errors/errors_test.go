package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrNotFound, "lead not found"))

	got := FromError(wrapped)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, "lead not found", got.Message)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.EqualError(t, got.Unwrap(), "boom")
}

func TestIsComparesByCode(t *testing.T) {
	err := Clone(ErrPrecondition, "Please select a job first")
	assert.True(t, errors.Is(err, ErrPrecondition))
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestWithFieldsCopies(t *testing.T) {
	err := WithFields(ErrValidation, "invalid job", map[string]string{"jobTitle": "Job title is required"})
	assert.Equal(t, "Job title is required", err.Fields["jobTitle"])
	assert.Nil(t, ErrValidation.Fields)
}
