package cdr

import (
	"errors"
	"strconv"
	"strings"

	"github.com/cxv4/cdr-go/internal/native"
)

var (
	// ErrLoad indicates the shared library could not be opened or lacks a
	// required entry point.
	ErrLoad = errors.New("cdr: library load failed")

	// ErrRegistration indicates a register call returned a negative code.
	ErrRegistration = errors.New("cdr: registration failed")

	// ErrOperation indicates a get/set call returned a failure code.
	ErrOperation = errors.New("cdr: operation failed")

	// ErrInvalidConfig indicates an unsupported buffer width or a malformed
	// argument, rejected before any native call.
	ErrInvalidConfig = errors.New("cdr: invalid configuration")

	// ErrOutOfRange indicates a buffer range outside the allocation.
	ErrOutOfRange = errors.New("cdr: range out of bounds")

	// ErrLibraryClosed indicates use of a Library after Close.
	ErrLibraryClosed = errors.New("cdr: library closed")

	// ErrUnsupported indicates the loaded library lacks an optional entry
	// point.
	ErrUnsupported = errors.New("cdr: entry point not available")

	// ErrNotBuilt reports that no native backend was linked into the binary.
	ErrNotBuilt = errors.New("cdr: native bindings not built")
)

// Error wraps a failure class with the operation and the native return code.
type Error struct {
	Op     string // Operation that failed
	Code   int    // Native return code, 0 if the native side was not reached
	Err    error  // One of the Err* sentinels
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("cdr.")
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(strings.TrimPrefix(e.Err.Error(), "cdr: "))
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Code != 0 {
		b.WriteString(" (errcode ")
		b.WriteString(strconv.Itoa(e.Code))
		b.WriteByte(')')
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the native return code carried by err, if any.
func Code(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code, true
	}
	return 0, false
}

func invalidf(op, detail string) error {
	return &Error{Op: op, Err: ErrInvalidConfig, Detail: detail}
}

// remapError converts native layer errors to public errors.
func remapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, native.ErrNotBuilt) {
		return &Error{Op: op, Err: ErrNotBuilt}
	}
	var le *native.LoadError
	if errors.As(err, &le) {
		return &Error{Op: op, Err: ErrLoad, Detail: le.Error()}
	}
	return &Error{Op: op, Err: ErrLoad, Detail: err.Error()}
}
