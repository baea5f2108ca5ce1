// Package errs defines the error kinds reported by recfile.
//
// Every failure wraps exactly one of the sentinel errors below, so callers can
// classify it with errors.Is. Structural I/O failures additionally carry the field
// and row being processed in a *FieldError:
//
//	_, err := session.Read(nil, []string{"flux"})
//	if errors.Is(err, errs.ErrUnexpectedEOF) {
//	    var fe *errs.FieldError
//	    if errors.As(err, &fe) {
//	        log.Printf("input ended inside field %s of row %d", fe.Field, fe.Row)
//	    }
//	}
package errs

import (
	"errors"
	"strconv"
	"strings"
)

// Configuration errors. They are reported before any I/O takes place.
var (
	ErrOpen               = errors.New("cannot open session")
	ErrNotOpen            = errors.New("session is not open")
	ErrWrongMode          = errors.New("session is not open in the required mode")
	ErrMissingSchema      = errors.New("read mode requires a schema")
	ErrInvalidRowCount    = errors.New("row count must be >= 1")
	ErrEmptySchema        = errors.New("schema has no fields")
	ErrMalformedField     = errors.New("malformed field descriptor")
	ErrUnknownField       = errors.New("unknown field name")
	ErrNoMatchingFields   = errors.New("none of the requested fields matched")
	ErrRowIndexOutOfRange = errors.New("row index out of range")
	ErrUnsortedRows       = errors.New("row indices are not strictly ascending")
	ErrBufferSize         = errors.New("buffer size does not match the row layout")
	ErrUnsupportedType    = errors.New("unsupported type")
)

// Structural I/O errors. The position of the underlying handle is indeterminate after one of these.
var (
	ErrTruncatedFile  = errors.New("file is truncated")
	ErrUnexpectedEOF  = errors.New("unexpected end of input")
	ErrMalformedValue = errors.New("malformed value")
	ErrSeekFailure    = errors.New("seek failed")
	ErrShortWrite     = errors.New("short write")
	ErrWriteFailure   = errors.New("write failed")
	ErrSessionFailed  = errors.New("session failed earlier and cannot be reused")
)

// FieldError records a structural failure together with where it happened.
//
// Row is -1 when the failure is not tied to a single row, and Field is empty
// when it is not tied to a single field.
type FieldError struct {
	Op    string // "read", "skip" or "write"
	Field string
	Row   int64
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Row >= 0 {
		b.WriteString(" row ")
		b.WriteString(strconv.FormatInt(e.Row, 10))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())

	return b.String()
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// At wraps err with the operation, field and row it occurred in.
// A nil err stays nil.
func At(op, field string, row int64, err error) error {
	if err == nil {
		return nil
	}

	return &FieldError{Op: op, Field: field, Row: row, Err: err}
}

// Structural reports whether err is a structural I/O failure that poisons the session.
func Structural(err error) bool {
	for _, kind := range []error{
		ErrTruncatedFile, ErrUnexpectedEOF, ErrMalformedValue,
		ErrSeekFailure, ErrShortWrite, ErrWriteFailure,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}

	return false
}
