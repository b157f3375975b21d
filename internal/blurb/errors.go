package blurb

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a change entry has a key other than
	// type, issue or description. Usually a typo in the blurb file.
	ErrUnknownField = errors.New("unknown field")
	// ErrMissingField is returned when a required key is absent or empty.
	ErrMissingField = errors.New("missing required field")
	// ErrUnknownCategory is returned for a type value outside the enumeration.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrMalformedAuthor is returned when an author name is not "First Last".
	ErrMalformedAuthor = errors.New("malformed author name")
	// ErrMissingAuthor is returned when a file has no author entry.
	ErrMissingAuthor = errors.New("missing author entry")
	// ErrDuplicateAuthor is returned when a file has more than one author entry.
	ErrDuplicateAuthor = errors.New("duplicate author entry")
	// ErrInvalidValue is returned when a field holds a mapping or sequence
	// where a plain value is expected.
	ErrInvalidValue = errors.New("invalid value")
	// ErrMixedEntry is returned when the author entry also carries change
	// fields, usually because a "---" separator is missing.
	ErrMixedEntry = errors.New("author entry mixes in change fields")
	// ErrDuplicateKey is returned when an entry repeats a key.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrSyntax wraps YAML decoding failures.
	ErrSyntax = errors.New("invalid YAML")
)

// ValidationError describes a blurb file that failed validation.
// Entry is the 1-based position of the offending entry in the file,
// or 0 when the error applies to the file as a whole.
type ValidationError struct {
	File  string
	Entry int
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Value != "" {
		msg = fmt.Sprintf("%s (got %q)", msg, e.Value)
	}
	switch {
	case e.File != "" && e.Entry > 0:
		return fmt.Sprintf("%s: entry %d: %s", e.File, e.Entry, msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, msg)
	case e.Entry > 0:
		return fmt.Sprintf("entry %d: %s", e.Entry, msg)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
