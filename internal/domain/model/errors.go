package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Wrap with the helpers below and match
// with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrBusinessRule = errors.New("business rule violation")
)

// ValidationError wraps ErrValidation with a formatted detail.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundError wraps ErrNotFound with a formatted detail.
func NotFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// BusinessRuleError wraps ErrBusinessRule with a formatted detail.
func BusinessRuleError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBusinessRule, fmt.Sprintf(format, args...))
}
