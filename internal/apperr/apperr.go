// internal/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"

	"nucmer-core/fasta"
	"nucmer-core/matchfinder"
	"nucmer-core/seqstore"
	"nucmer-core/ssa"
)

// Kind classifies a failure for exit-code mapping and scriptable reporting.
type Kind int

const (
	Internal Kind = iota
	Usage
	InputFormat
	InvalidAlphabet
	IndexMismatch
	Io
)

func (k Kind) String() string {
	switch k {
	case Usage:
		return "usage"
	case InputFormat:
		return "input-format"
	case InvalidAlphabet:
		return "invalid-alphabet"
	case IndexMismatch:
		return "index-mismatch"
	case Io:
		return "io"
	default:
		return "internal"
	}
}

// Error wraps an underlying failure with a stable Kind tag and, where known,
// the offending path or record.
type Error struct {
	Kind   Kind
	Path   string
	Record string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Record != "":
		return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Path, e.Record, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind, optionally tagging the offending
// path/record.
func New(kind Kind, path, record string, err error) *Error {
	return &Error{Kind: kind, Path: path, Record: record, Err: err}
}

// Wrapf is New with a formatted underlying error, for call sites that don't
// already have an error value to wrap (e.g. a validation failure).
func Wrapf(kind Kind, path string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// WrapIO tags a failed file read/write/open with the Io kind.
func WrapIO(path string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Io, Path: path, Err: err}
}

// ExitCode maps a Kind to spec §6's exit-code table.
func (k Kind) ExitCode() int {
	switch k {
	case Usage:
		return 2
	case InputFormat:
		return 3
	case IndexMismatch:
		return 4
	case Io:
		return 5
	default:
		return 1
	}
}

// ExitCode returns 0 for a nil error and otherwise maps err to spec §6's
// exit-code table, classifying plain (non-*Error) errors against the core
// packages' sentinel errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind.ExitCode()
	}
	return Classify(err).ExitCode()
}

// Classify inspects a plain error returned by a core package and maps it to
// a Kind by matching against known sentinel errors. Errors that already
// carry a Kind (via *Error) are returned unchanged by the caller; Classify
// is for errors bubbling up from nucmer-core without having been wrapped yet.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, fasta.ErrMalformedHeader), errors.Is(err, fasta.ErrEmptySequence):
		return InputFormat
	case errors.Is(err, seqstore.ErrInvalidAlphabet):
		return InvalidAlphabet
	case errors.Is(err, ssa.ErrIndexMismatch):
		return IndexMismatch
	case errors.Is(err, ssa.ErrSamplingRate), errors.Is(err, matchfinder.ErrMinMatchTooShort):
		return Usage
	default:
		return Internal
	}
}
