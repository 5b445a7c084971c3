package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindMatching(t *testing.T) {
	err := ConstraintViolation("sku %q already exists", "A1")

	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, `sku "A1" already exists`, err.Error())
}

func TestStorageFailureUnwraps(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := StorageFailure(cause, "record sale")

	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "record sale: disk I/O error", err.Error())
}

func TestKindOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("pay: %w", InvalidInput("bad"))

	assert.Equal(t, KindInvalidInput, KindOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "INVALID_INPUT", KindInvalidInput.String())
}
