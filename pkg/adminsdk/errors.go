package adminsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in error envelopes.
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

// RPCError is a failed procedure call.
type RPCError struct {
	StatusCode  int
	Code        string
	JSONRPCCode int
	Message     string
	Path        string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s %s (HTTP %d): %s", e.Path, e.Code, e.StatusCode, e.Message)
}

// IsCode reports whether err is an *RPCError with the given code.
func IsCode(err error, code string) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
		Data    struct {
			Code       string `json:"code"`
			HTTPStatus int    `json:"httpStatus"`
			Path       string `json:"path"`
		} `json:"data"`
	} `json:"error"`
}

// parseErrorResponse turns a non-2xx response into an *RPCError, falling back
// to the status line when the body is not an envelope (e.g. /metrics).
func parseErrorResponse(resp *http.Response, body []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Data.Code != "" {
		return &RPCError{
			StatusCode:  resp.StatusCode,
			Code:        env.Error.Data.Code,
			JSONRPCCode: env.Error.Code,
			Message:     env.Error.Message,
			Path:        env.Error.Data.Path,
		}
	}

	return &RPCError{
		StatusCode: resp.StatusCode,
		Code:       CodeInternalServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		Path:       resp.Request.URL.Path,
	}
}
