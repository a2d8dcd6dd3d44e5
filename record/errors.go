package record

import "fmt"

// MissingFieldError reports a declared field absent from the raw input.
type MissingFieldError struct {
	Type  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("type %q: missing field %q", e.Type, e.Field)
}

// UnknownFieldError reports a raw input key that no declared field matches.
// Rejecting it outright catches typos instead of silently dropping them.
type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("type %q: unknown field %q", e.Type, e.Field)
}

// TypeMismatchError reports a raw value whose shape or kind conflicts with
// the field's declared type.
type TypeMismatchError struct {
	Type  string
	Field string
	Want  string
	Got   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type %q: field %q: want %s, got %s", e.Type, e.Field, e.Want, e.Got)
}

// SubConfigLoadError reports a failure loading a sub-configuration file
// referenced by a path value. It wraps the underlying I/O failure.
type SubConfigLoadError struct {
	Field string
	Path  string
	Err   error
}

func (e *SubConfigLoadError) Error() string {
	return fmt.Sprintf("field %q: loading sub-config %q: %v", e.Field, e.Path, e.Err)
}

func (e *SubConfigLoadError) Unwrap() error {
	return e.Err
}

// ImmutableRecordError reports an attempted write to a constructed record.
type ImmutableRecordError struct {
	Type  string
	Field string
}

func (e *ImmutableRecordError) Error() string {
	return fmt.Sprintf("type %q: field %q: record is immutable", e.Type, e.Field)
}
