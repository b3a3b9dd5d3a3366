package task

import (
	"errors"
	"strings"
)

// Sentinel errors for task operations.
var (
	// ErrTaskNotFound is returned when no task matches the given id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrStoreUnavailable is returned when the database connection
	// cannot be established or pinged.
	ErrStoreUnavailable = errors.New("store unavailable")
)

const validationPrefix = "validation failed"

// ValidationError reports required fields that are missing or carry
// values outside their allowed set.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(validationPrefix)
	if len(e.Missing) > 0 {
		b.WriteString(": missing required fields: ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		b.WriteString(": invalid fields: ")
		b.WriteString(strings.Join(e.Invalid, ", "))
	}
	return b.String()
}

// Service errors cross the framework's request-reply boundary as plain
// strings, so kind checks match on stable message markers rather than
// relying on errors.Is alone.

// IsNotFound reports whether err represents a missing task.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTaskNotFound) || strings.Contains(err.Error(), ErrTaskNotFound.Error())
}

// IsValidation reports whether err represents rejected input.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	var ve *ValidationError
	return errors.As(err, &ve) || strings.Contains(err.Error(), validationPrefix)
}
