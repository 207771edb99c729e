package atlas

import (
	"errors"
	"fmt"
)

// ErrEmptyValue is returned when a non-empty value is constructed from an
// empty string.
var ErrEmptyValue = errors.New("value cannot be empty")

// ConfigError reports invalid client construction input.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "atlas client config: " + e.Reason }

// ExecNotFoundError reports a failed PATH lookup of the atlas binary.
type ExecNotFoundError struct {
	Name string
	Err  error
}

func (e *ExecNotFoundError) Error() string {
	return fmt.Sprintf("looking up %s: %v", e.Name, e.Err)
}

func (e *ExecNotFoundError) Unwrap() error { return e.Err }

// WorkingDirError reports a working directory that does not exist.
type WorkingDirError struct {
	Dir string
	Err error
}

func (e *WorkingDirError) Error() string {
	return fmt.Sprintf("working dir %s: %v", e.Dir, e.Err)
}

func (e *WorkingDirError) Unwrap() error { return e.Err }

// ValidationError reports a required parameter that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ProcessError reports that the atlas process could not be spawned.
type ProcessError struct {
	Err error
}

func (e *ProcessError) Error() string { return "running atlas: " + e.Err.Error() }

func (e *ProcessError) Unwrap() error { return e.Err }

// CommandError reports a non-zero atlas exit. Stderr is captured and
// trimmed for diagnosis.
type CommandError struct {
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("atlas exited with status %d: %s", e.ExitCode, e.Stderr)
}

// EncodingError reports non-UTF-8 bytes on a captured stream.
type EncodingError struct {
	Stream string
}

func (e *EncodingError) Error() string {
	return "atlas " + e.Stream + " is not valid utf-8"
}

// DecodeError reports a JSON shape mismatch. Raw preserves the full
// trimmed stdout for diagnosis.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding atlas response %q: %v", e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AmbiguousResultError reports that a single-result call decoded a slice
// whose length was not exactly one.
type AmbiguousResultError struct {
	Count int
}

func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("expected exactly one result, got %d; use the slice variant", e.Count)
}
