package review

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRoot marks a review root missing one of its category directories.
	ErrInvalidRoot = errors.New("invalid review root")
	// ErrNotFound marks a lookup for a path the session does not track.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicatePath marks a load whose input names the same path twice.
	ErrDuplicatePath = errors.New("duplicate path")
	// ErrApplyInFlight marks a mutation attempted while an apply is running.
	ErrApplyInFlight = errors.New("apply already in flight")
)

// Wrap tags err with the provided sentinel and operation context while keeping
// both inspectable through errors.Is.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = errors.New("review failure")
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
