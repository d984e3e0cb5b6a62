package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("metashift: invalid configuration")
	// ErrMalformedReport matches every MalformedReportError via errors.Is.
	ErrMalformedReport = errors.New("metashift: malformed report")
	// ErrInvalidRecipeName is returned when a name is not a name-version-release triple.
	ErrInvalidRecipeName = errors.New("metashift: invalid recipe name")
)

// ConfigurationError reports an unusable report root or recipe directory.
// It is fatal and raised before any report is parsed.
type ConfigurationError struct {
	// Path is the offending directory.
	Path string
	// Reason describes what is wrong with Path.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConfiguration) succeed.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// MalformedReportError reports a present report file that could not be read as a
// valid document of its category. It aborts the whole ingestion run.
type MalformedReportError struct {
	// Path is the report file.
	Path string
	// Err describes the defect.
	Err error
}

// Error implements the error interface.
func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("malformed report %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MalformedReportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMalformedReport) succeed.
func (e *MalformedReportError) Is(target error) bool {
	return target == ErrMalformedReport
}

// Malformed builds a MalformedReportError with a formatted cause.
func Malformed(path string, format string, args ...any) error {
	return &MalformedReportError{Path: path, Err: fmt.Errorf(format, args...)}
}
