package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig reports a non-positive or non-numeric configuration value.
	ErrConfig = errors.New("invalid configuration")

	// ErrUnstable reports a system with utilization rho >= 1, whose queue grows without bound.
	ErrUnstable = errors.New("unstable queueing system")

	// ErrResourceExhausted reports a simulation stopped by a ceiling before all customers departed.
	ErrResourceExhausted = errors.New("simulation resource exhausted")
)

// ConfigError describes the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v, %s", ErrConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

func newConfigError(field string, value any, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
