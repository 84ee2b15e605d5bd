package rpc

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/haulmatch/taxadmin/internal/admin/service"
	"github.com/haulmatch/taxadmin/pkg/httpx"
)

// Error codes of the tRPC wire format.
const (
	CodeParseError          = "PARSE_ERROR"
	CodeBadRequest          = "BAD_REQUEST"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotSupported  = "METHOD_NOT_SUPPORTED"
	CodePreconditionFailed  = "PRECONDITION_FAILED"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
)

// jsonRPCCodes maps tRPC codes to their JSON-RPC 2.0 numbers.
var jsonRPCCodes = map[string]int{
	CodeParseError:          -32700,
	CodeBadRequest:          -32600,
	CodeInternalServerError: -32603,
	CodeUnauthorized:        -32001,
	CodeForbidden:           -32003,
	CodeNotFound:            -32004,
	CodeMethodNotSupported:  -32005,
	CodePreconditionFailed:  -32012,
	CodeTooManyRequests:     -32029,
}

// Error is a procedure failure as seen by the client.
type Error struct {
	StatusCode int
	Code       string
	Message    string

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// JSONRPCCode returns the numeric code carried in the error envelope.
func (e *Error) JSONRPCCode() int {
	if c, ok := jsonRPCCodes[e.Code]; ok {
		return c
	}
	return jsonRPCCodes[CodeInternalServerError]
}

func NewError(statusCode int, code, message string) *Error {
	return &Error{StatusCode: statusCode, Code: code, Message: message}
}

var (
	ErrInvalidCredentials = NewError(http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password")
	ErrUnauthorized       = NewError(http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
	ErrAccessDenied       = NewError(http.StatusForbidden, CodeForbidden, "Access denied. Admin role required.")
	ErrOTPRequired        = NewError(http.StatusPreconditionFailed, CodePreconditionFailed, "One-time code required")
	ErrNotFound           = NewError(http.StatusNotFound, CodeNotFound, "Not found")
	ErrProcedureNotFound  = NewError(http.StatusNotFound, CodeNotFound, "No such procedure")
	ErrMethodNotSupported = NewError(http.StatusMethodNotAllowed, CodeMethodNotSupported, "Method not supported")
	ErrParse              = NewError(http.StatusBadRequest, CodeParseError, "Input is not valid JSON")
	ErrTooManyRequests    = NewError(http.StatusTooManyRequests, CodeTooManyRequests, "Too many requests, please try again later")
	ErrInternal           = NewError(http.StatusInternalServerError, CodeInternalServerError, "internal server error")
)

// ErrorFrom maps an error returned by a procedure or the gate to its client
// representation. Errors it does not recognise become ErrInternal with the
// original kept as the cause.
func ErrorFrom(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, service.ErrAccessDenied), errors.Is(err, httpx.ErrForbidden):
		return ErrAccessDenied
	case errors.Is(err, httpx.ErrUnauthenticated):
		return ErrUnauthorized
	case errors.Is(err, service.ErrOTPRequired):
		return ErrOTPRequired
	case errors.Is(err, service.ErrNotFound):
		return &Error{StatusCode: http.StatusNotFound, Code: CodeNotFound, Message: err.Error(), cause: err}
	case errors.Is(err, service.ErrInvalidInput):
		return &Error{StatusCode: http.StatusBadRequest, Code: CodeBadRequest, Message: err.Error(), cause: err}
	default:
		return &Error{
			StatusCode: ErrInternal.StatusCode,
			Code:       ErrInternal.Code,
			Message:    ErrInternal.Message,
			cause:      err,
		}
	}
}
