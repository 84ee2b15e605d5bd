package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/haulmatch/taxadmin/pkg/httpx"
)

// Kind selects the HTTP method a procedure answers to.
type Kind int

const (
	KindQuery    Kind = iota // GET, input in ?input=
	KindMutation             // POST, input in the body
)

func (k Kind) String() string {
	if k == KindMutation {
		return "mutation"
	}
	return "query"
}

func (k Kind) method() string {
	if k == KindMutation {
		return http.MethodPost
	}
	return http.MethodGet
}

// Call is the transport side of a single invocation. Procedures may set
// response headers (cookies) on Writer but must not write the body.
type Call struct {
	Path    string
	Request *http.Request
	Writer  http.ResponseWriter
}

// HandlerFunc runs a procedure body against its raw JSON input.
type HandlerFunc func(ctx context.Context, call *Call, input json.RawMessage) (any, error)

type Procedure struct {
	Name    string
	Kind    Kind
	Tier    httpx.Tier
	Handler HandlerFunc

	// ignoreInput skips reading the request input altogether.
	ignoreInput bool
}

// Query declares a read-only procedure with typed input and output.
func Query[In, Out any](name string, tier httpx.Tier, fn func(ctx context.Context, call *Call, in In) (Out, error)) Procedure {
	return newProcedure(name, KindQuery, tier, fn)
}

// Mutation declares a state-changing procedure with typed input and output.
func Mutation[In, Out any](name string, tier httpx.Tier, fn func(ctx context.Context, call *Call, in In) (Out, error)) Procedure {
	return newProcedure(name, KindMutation, tier, fn)
}

func newProcedure[In, Out any](name string, kind Kind, tier httpx.Tier, fn func(ctx context.Context, call *Call, in In) (Out, error)) Procedure {
	var zero In
	_, ignore := any(zero).(NoInput)
	return Procedure{Name: name, Kind: kind, Tier: tier, Handler: typed(fn, ignore), ignoreInput: ignore}
}

func typed[In, Out any](fn func(ctx context.Context, call *Call, in In) (Out, error), ignoreInput bool) HandlerFunc {
	return func(ctx context.Context, call *Call, raw json.RawMessage) (any, error) {
		var in In
		if !ignoreInput {
			if err := decodeInput(raw, &in); err != nil {
				return nil, err
			}
		}
		return fn(ctx, call, in)
	}
}

// NoInput is the input of procedures that take none. Whatever the client
// sends is not read, so such procedures cannot fail on malformed input.
type NoInput struct{}

func decodeInput(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	err := json.Unmarshal(raw, dst)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &Error{StatusCode: ErrParse.StatusCode, Code: ErrParse.Code, Message: ErrParse.Message, cause: err}
	}
	return &Error{StatusCode: http.StatusBadRequest, Code: CodeBadRequest, Message: inputMessage(err), cause: err}
}

// inputMessage describes a decode failure in terms of the JSON input.
func inputMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return fmt.Sprintf("Invalid input: expected %s, got %s", jsonKind(typeErr.Type), typeErr.Value)
		}
		return fmt.Sprintf("Invalid input: %s must be %s, got %s", typeErr.Field, jsonKind(typeErr.Type), typeErr.Value)
	}

	var invalidErr *json.InvalidUnmarshalError
	if errors.As(err, &invalidErr) {
		return "Invalid input"
	}

	// Errors from the input types' own UnmarshalJSON methods.
	return "Invalid input: " + err.Error()
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a value"
	}
	switch t.Kind() {
	case reflect.Pointer:
		return jsonKind(t.Elem())
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "a value"
	}
}
