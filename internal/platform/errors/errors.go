// Package errors is the coded error type every layer returns.
// Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error for clients; the numbers are sent on the wire, so only append
type ErrorCode uint16

const (
	ErrorCodeUnknown          ErrorCode = iota // unclassified
	ErrorCodePanic                             // recovered by middleware
	ErrorCodeUnavailable                       // transient backend or upstream failure
	ErrorCodeTooManyRequests                   // rate limited
	ErrorCodeTimeout                           // request or statement deadline
	ErrorCodeValidation                        // bad filter or query parameter
	ErrorCodeNotFound                          // listing, agency or route
	ErrorCodeNotConfigured                     // backend never configured
	ErrorCodeDB                                // other storage failure
	ErrorCodeMethodNotAllowed                  // known route, wrong method
)

var codes = [...]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:          {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:            {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:      {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests:  {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeTimeout:          {"timeout", http.StatusGatewayTimeout},
	ErrorCodeValidation:       {"validation", http.StatusBadRequest},
	ErrorCodeNotFound:         {"not_found", http.StatusNotFound},
	ErrorCodeNotConfigured:    {"not_configured", http.StatusServiceUnavailable},
	ErrorCodeDB:               {"db", http.StatusInternalServerError},
	ErrorCodeMethodNotAllowed: {"method_not_allowed", http.StatusMethodNotAllowed},
}

func (c ErrorCode) known() bool { return int(c) < len(codes) }

// String is the label used in logs and metrics
func (c ErrorCode) String() string {
	if !c.known() {
		return fmt.Sprintf("code(%d)", uint16(c))
	}
	return codes[c].name
}

// Status is the HTTP status a response with this code carries; unknown codes are 500
func (c ErrorCode) Status() int {
	if !c.known() {
		return http.StatusInternalServerError
	}
	return codes[c].status
}

// ErrNotFound is the bare not found error
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is a coded message. cause is kept for errors.Is and logs but never rendered to clients
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field names the offending query parameter, if any
func (e *Error) Field() string { return e.field }

// Wire is the error as it appears in a response body
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom renders err for a response. Foreign errors keep their text under ErrorCodeUnknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return Wire{Code: e.code, Message: e.msg, Field: e.field}
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// Root follows Unwrap to the innermost cause
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// CodeOf is the code of the outermost *Error, ErrorCodeUnknown when there is none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err is non nil and carries code
func IsCode(err error, code ErrorCode) bool { return err != nil && CodeOf(err) == code }

// HTTPStatus is the response status for err
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// WithField copies err with field set. Foreign errors become validation failures
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return &Error{code: ErrorCodeValidation, msg: err.Error(), field: field, cause: err}
	}
	cp := *e
	cp.field = field
	return &cp
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrapf attaches cause to a coded message
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), cause: cause}
}

func NotFoundf(format string, a ...any) error      { return Newf(ErrorCodeNotFound, format, a...) }
func Validationf(format string, a ...any) error    { return Newf(ErrorCodeValidation, format, a...) }
func PanicErrf(format string, a ...any) error      { return Newf(ErrorCodePanic, format, a...) }
func NotConfiguredf(format string, a ...any) error { return Newf(ErrorCodeNotConfigured, format, a...) }
func TooManyRequestsf(format string, a ...any) error {
	return Newf(ErrorCodeTooManyRequests, format, a...)
}
