package types

import (
	"errors"
	"fmt"
)

func NewMethodNotFoundError(name string) error {
	return fmt.Errorf("method %v not found", name)
}

func NewInvalidInputError(in interface{}) error {
	return fmt.Errorf("invalid input %T", in)
}

func NewInvalidOutputError(in interface{}) error {
	return fmt.Errorf("invalid output %T", in)
}

// ConfigurationError indicates an invalid run request or an unusable binary
// directory. It is always raised before any scratch space is created.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// StagingError indicates a required input file was absent at staging time.
type StagingError struct {
	Asset  string
	Reason string
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("staging error for %s: %s", e.Asset, e.Reason)
}

func NewStagingError(asset, format string, args ...interface{}) error {
	return &StagingError{Asset: asset, Reason: fmt.Sprintf(format, args...)}
}

// ResourceError indicates the scratch base could not be created or written.
type ResourceError struct {
	Location string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource error at %s: %v", e.Location, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

func NewResourceError(location string, err error) error {
	return &ResourceError{Location: location, Err: err}
}

// IsPreExecution reports whether err belongs to the fail-fast family that is
// raised before the external process starts.
func IsPreExecution(err error) bool {
	var cfg *ConfigurationError
	var stg *StagingError
	var res *ResourceError
	return errors.As(err, &cfg) || errors.As(err, &stg) || errors.As(err, &res)
}
