package repository

import (
	"errors"
	"strings"

	"go-pos-register/pkg/apperror"

	"gorm.io/gorm"
)

// translate maps a gorm/driver error onto the domain taxonomy.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return apperror.ConstraintViolation("%s violates a uniqueness constraint", what)
	default:
		return apperror.StorageFailure(err, "%s", what)
	}
}

// isUniqueViolation catches drivers that do not implement gorm's error translator.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
