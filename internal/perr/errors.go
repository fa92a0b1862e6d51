// Package perr defines the error taxonomy shared by every pipeline component.
package perr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the categories the pipeline's
// propagation policy distinguishes between.
type Kind int

const (
	// KindIo covers filesystem and stream failures not otherwise classified.
	KindIo Kind = iota
	// KindDecode covers image-decoding failures.
	KindDecode
	// KindUnsupported covers formats recognised but deliberately not decoded.
	KindUnsupported
	// KindFormat covers a named-format-specific failure (e.g. "tiff").
	KindFormat
	// KindTimeout covers a sub-operation that exceeded its deadline.
	KindTimeout
	// KindPanic covers a recovered panic inside a worker goroutine.
	KindPanic
	// KindStore covers index-store read/write failures.
	KindStore
	// KindConfig covers configuration-loading failures.
	KindConfig
	// KindFileNotFound covers a missing root directory or file.
	KindFileNotFound
	// KindInterrupted covers a caller-initiated cancellation.
	KindInterrupted
)

func (k Kind) String() string {
	switch k {
	case KindIo:
		return "io"
	case KindDecode:
		return "decode"
	case KindUnsupported:
		return "unsupported"
	case KindFormat:
		return "format"
	case KindTimeout:
		return "timeout"
	case KindPanic:
		return "panic"
	case KindStore:
		return "store"
	case KindConfig:
		return "config"
	case KindFileNotFound:
		return "file_not_found"
	case KindInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Error is a typed, wrapped pipeline error. Path is optional context (the
// file the error concerns); Format names the decoder involved, when known.
type Error struct {
	Kind   Kind
	Path   string
	Format string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Format != "":
		return fmt.Sprintf("%s [%s] %s: %v", e.Kind, e.Format, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, perr.Sentinel(kind)) match any *Error of the same
// Kind, whatever it wraps.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error of the given kind wrapping err, optionally annotated
// with a path and/or format name.
func New(kind Kind, err error, path string) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// WithFormat annotates an existing *Error with a format name, returning it
// for chaining.
func (e *Error) WithFormat(format string) *Error {
	e.Format = format
	return e
}

// Sentinel, used with errors.Is to test the kind of an arbitrary error
// without needing the wrapped cause.
func Sentinel(kind Kind) *Error { return &Error{Kind: kind, Err: errors.New(kind.String())} }

// Of reports whether err carries the given Kind anywhere in its chain.
func Of(err error, kind Kind) bool {
	return errors.Is(err, Sentinel(kind))
}
