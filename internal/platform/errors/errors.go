// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode defines supported error codes used across the pipeline and API.
// Values are stable for wire and report compatibility; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for validation failures (input data)
	ErrorCodeValidation

	// ErrorCodeJSON is for JSON parsing/validation errors
	ErrorCodeJSON

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound

	// ErrorCodeForbidden is for access control failures
	ErrorCodeForbidden

	// ErrorCodeConflict is for editing conflicts
	ErrorCodeConflict

	// ErrorCodeUnavailable is for transient errors where retry may succeed
	ErrorCodeUnavailable

	// Reconciliation conditions. The first four are non-fatal: the engine
	// collects them into the warning report and leaves the record excluded or
	// unassigned. The last two are fatal: they mean the output would be
	// structurally unsound and the run must abort.

	// ErrorCodeMissingIdentifier is for source features with no usable area key
	ErrorCodeMissingIdentifier

	// ErrorCodeGeometryParse is for malformed geometry within a source record
	ErrorCodeGeometryParse

	// ErrorCodeUnknownDepotLabel is for depot labels outside the canonical table
	ErrorCodeUnknownDepotLabel

	// ErrorCodeAmbiguousBaseline is for multiple baseline rows matching one area
	ErrorCodeAmbiguousBaseline

	// ErrorCodeDuplicateAreaID is for two features normalizing to the same area id
	ErrorCodeDuplicateAreaID

	// ErrorCodeCoverageGap is for target territory missing after fallback resolution
	ErrorCodeCoverageGap

	// ErrorCodeImmutableArea is for assignment attempts on out-of-scope areas
	ErrorCodeImmutableArea
)

// String returns the stable code name used in reports and logs
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodePanic:
		return "Panic"
	case ErrorCodeInvalidArgument:
		return "InvalidArgument"
	case ErrorCodeValidation:
		return "Validation"
	case ErrorCodeJSON:
		return "JSON"
	case ErrorCodeNotFound:
		return "NotFound"
	case ErrorCodeForbidden:
		return "Forbidden"
	case ErrorCodeConflict:
		return "Conflict"
	case ErrorCodeUnavailable:
		return "Unavailable"
	case ErrorCodeMissingIdentifier:
		return "MissingIdentifier"
	case ErrorCodeGeometryParse:
		return "GeometryParseError"
	case ErrorCodeUnknownDepotLabel:
		return "UnknownDepotLabel"
	case ErrorCodeAmbiguousBaseline:
		return "AmbiguousBaselineMatch"
	case ErrorCodeDuplicateAreaID:
		return "DuplicateAreaId"
	case ErrorCodeCoverageGap:
		return "CoverageGap"
	case ErrorCodeImmutableArea:
		return "ImmutableArea"
	default:
		return "Unknown"
	}
}

// Fatal reports whether the code aborts a reconciliation run rather than
// being collected as a warning
func Fatal(c ErrorCode) bool {
	switch c {
	case ErrorCodeDuplicateAreaID, ErrorCodeCoverageGap:
		return true
	default:
		return false
	}
}

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument, ErrorCodeMissingIdentifier, ErrorCodeGeometryParse,
		ErrorCodeUnknownDepotLabel, ErrorCodeAmbiguousBaseline:
		return http.StatusUnprocessableEntity
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeForbidden, ErrorCodeImmutableArea:
		return http.StatusForbidden
	case ErrorCodeConflict, ErrorCodeDuplicateAreaID:
		return http.StatusConflict
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is a sentinel not found error for convenience
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// ref is optional (offending field or source record key)
// orig is the wrapped cause
type Error struct {
	orig error
	msg  string
	code ErrorCode
	ref  string
}

// Wire is the JSON-serializable form shared by the API envelope and the
// regeneration warning report
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Ref     string    `json:"ref,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Ref returns the offending field or record reference, if any
func (e *Error) Ref() string { return e.ref }

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Ref: e.ref} }

// WireFrom converts any error into a Wire payload with best-effort mapping
// If err is nil, returns the zero-value Wire (no error)
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithRef attaches a field/record reference to an *Error (copy-on-write).
// If err isn't *Error, returns err unchanged
func WithRef(err error, ref string) error {
	if e, ok := As(err); ok {
		c := *e
		c.ref = ref
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Sugar

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Validationf returns a validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Forbiddenf returns a forbidden error
func Forbiddenf(format string, a ...any) error { return Newf(ErrorCodeForbidden, format, a...) }

// Conflictf returns a conflict error
func Conflictf(format string, a ...any) error { return Newf(ErrorCodeConflict, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// MissingIdentifierf returns a missing identifier condition
func MissingIdentifierf(format string, a ...any) error {
	return Newf(ErrorCodeMissingIdentifier, format, a...)
}

// GeometryParsef returns a geometry parse condition
func GeometryParsef(format string, a ...any) error { return Newf(ErrorCodeGeometryParse, format, a...) }

// UnknownDepotf returns an unknown depot label condition
func UnknownDepotf(format string, a ...any) error {
	return Newf(ErrorCodeUnknownDepotLabel, format, a...)
}

// AmbiguousBaselinef returns an ambiguous baseline match condition
func AmbiguousBaselinef(format string, a ...any) error {
	return Newf(ErrorCodeAmbiguousBaseline, format, a...)
}

// DuplicateAreaIDf returns a duplicate area id condition
func DuplicateAreaIDf(format string, a ...any) error {
	return Newf(ErrorCodeDuplicateAreaID, format, a...)
}

// CoverageGapf returns a coverage gap condition
func CoverageGapf(format string, a ...any) error { return Newf(ErrorCodeCoverageGap, format, a...) }

// ImmutableAreaf returns an immutable area condition
func ImmutableAreaf(format string, a ...any) error { return Newf(ErrorCodeImmutableArea, format, a...) }

// HTTP bundles status + wire in one shot (nice for handlers)
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}
