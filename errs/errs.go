// Package errs defines the typed error kinds produced by the decoder and
// walker. Every error that can escape this module is one of the constants
// declared here, optionally carrying a wrapped cause or a formatted message.
package errs

import "fmt"

// DriverError is the common shape of every error this module returns.
// It mirrors the errno-style pattern of annotating a fixed error kind with
// context, rather than allocating a fresh error type per call site.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
	Unwrap() error
}

// Kind identifies the class of failure an error represents.
type Kind string

const (
	// UsageError means the caller invoked a command without a required
	// positional argument.
	UsageError = Kind("usage error")

	// OpenFailed means the image could not be opened.
	OpenFailed = Kind("failed to open image")

	// ShortRead means a required field or region extends past the end of
	// the image.
	ShortRead = Kind("short read")

	// DirectoryTooDeep means the walker's recursion cap was exceeded.
	DirectoryTooDeep = Kind("directory tree too deep")

	// MalformedEntry is reserved for strict-mode validation; the base
	// decoder never returns it.
	MalformedEntry = Kind("malformed directory entry")
)

func (k Kind) Error() string { return string(k) }

func (k Kind) WithMessage(message string) DriverError {
	return &wrapped{kind: k, message: message}
}

func (k Kind) WrapError(err error) DriverError {
	return &wrapped{kind: k, message: err.Error(), cause: err}
}

type wrapped struct {
	kind    Kind
	message string
	cause   error
}

func (w *wrapped) Error() string {
	if w.message == "" {
		return string(w.kind)
	}
	return fmt.Sprintf("%s: %s", w.kind, w.message)
}

func (w *wrapped) WithMessage(message string) DriverError {
	return &wrapped{kind: w.kind, message: fmt.Sprintf("%s: %s", w.message, message), cause: w}
}

func (w *wrapped) WrapError(err error) DriverError {
	return &wrapped{kind: w.kind, message: fmt.Sprintf("%s: %s", w.Error(), err.Error()), cause: err}
}

func (w *wrapped) Unwrap() error { return w.cause }

// Is lets errors.Is(err, errs.ShortRead) work against a *wrapped value.
func (w *wrapped) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && w.kind == kind
}

// ShortReadDetail describes the specific out-of-bounds access that produced
// a ShortRead error. NewShortRead does not attach a ShortReadDetail to the
// error it returns; the offset and byte counts appear only in the error's
// message text.
type ShortReadDetail struct {
	Offset uint64
	Want   int
	Got    int
}

// NewShortRead builds a ShortRead error carrying the offending offset and
// byte counts.
func NewShortRead(offset uint64, want, got int) DriverError {
	return ShortRead.WithMessage(
		fmt.Sprintf("offset %d: wanted %d bytes, got %d", offset, want, got))
}
