package core

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel wrapped by every ConfigurationError so callers
// can test with errors.Is without caring which component failed.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a missing or invalid construction parameter
// (no model identity, duplicate tool name, non-positive iteration cap, ...).
// It is always returned by constructors, never from inside a running loop.
type ConfigurationError struct {
	Component string `json:"component"` // Constructor that rejected the input
	Field     string `json:"field"`     // Offending option or argument
	Reason    string `json:"reason"`    // Human-readable explanation
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid %s: %s", e.Component, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Component, e.Reason)
}

// Unwrap allows errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(component, field, reason string) *ConfigurationError {
	return &ConfigurationError{Component: component, Field: field, Reason: reason}
}
