// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

// Package mpqerr defines the error taxonomy shared by the archive
// reader and its asset decoders (mpqkit, dxt1, blp, gltf), so a
// caller checks one vocabulary regardless of which layer failed.
package mpqerr

import "fmt"

// Kind classifies the failure. Callers should switch on Kind (or use
// Is below), not on error text.
type Kind int

const (
	// Other is the zero Kind, for an error that doesn't fit any other
	// Kind.
	Other Kind = iota
	FormatError
	ReadError
	SeekError
	DecryptionError
	DecompressionError
	InvalidCompressionTag
	FileNotFound
	UnsupportedFeature
	OutOfMemory
)

func (k Kind) String() string {
	switch k {
	case FormatError:
		return "FormatError"
	case ReadError:
		return "ReadError"
	case SeekError:
		return "SeekError"
	case DecryptionError:
		return "DecryptionError"
	case DecompressionError:
		return "DecompressionError"
	case InvalidCompressionTag:
		return "InvalidCompressionTag"
	case FileNotFound:
		return "FileNotFound"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case OutOfMemory:
		return "OutOfMemory"
	default:
		return "Error"
	}
}

// Error is a Kind-tagged error. Op names the operation that failed
// (e.g. "mpq.Open", "dxt1.Decode"); Err is the underlying cause, if
// any, and is reachable through Unwrap for errors.Is/errors.As.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a Kind-tagged error with no underlying cause.
func New(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf("%s", msg)}
}

// Wrap tags an existing error with a Kind and the operation in which
// it occurred. Wrap(nil, ...) returns nil so it is safe to call on
// the result of a function that may have succeeded.
func Wrap(err error, kind Kind, op string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ce, ok := err.(*Error); ok {
			e = ce
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
