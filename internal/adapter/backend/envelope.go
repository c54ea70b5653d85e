package backend

import (
	"encoding/json"
	"errors"
	"fmt"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
)

// envelope is the uniform wrapper of every backend response.
type envelope struct {
	IsSuccess bool            `json:"isSuccess"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Errors    json.RawMessage `json:"errors,omitempty"`
}

// Failure is the failed side of a Result. Status is the HTTP status when
// the failure came from a non-2xx reply, 0 when a 2xx envelope said
// isSuccess=false or no reply was obtained.
type Failure struct {
	Status  int
	Message string
	Details json.RawMessage
	Err     error
}

func (f *Failure) Error() string {
	switch {
	case f.Message != "":
		return f.Message
	case f.Err != nil:
		return f.Err.Error()
	default:
		return "request failed"
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// BackendMessage is the envelope message, "" when the backend sent none.
func (f *Failure) BackendMessage() string { return f.Message }

// FieldErrors decodes structured validation details of the shapes
// {"Field": ["msg"]} or {"Field": "msg"}. ok is false for any other shape.
func (f *Failure) FieldErrors() (map[string][]string, bool) {
	if len(f.Details) == 0 {
		return nil, false
	}
	var many map[string][]string
	if err := json.Unmarshal(f.Details, &many); err == nil && len(many) > 0 {
		return many, true
	}
	var single map[string]string
	if err := json.Unmarshal(f.Details, &single); err == nil && len(single) > 0 {
		out := make(map[string][]string, len(single))
		for k, v := range single {
			out[k] = []string{v}
		}
		return out, true
	}
	return nil, false
}

// Transport reports whether no backend reply was obtained.
func (f *Failure) Transport() bool {
	var netErr *domainErrors.NetworkError
	var timeoutErr *domainErrors.TimeoutError
	return errors.As(f.Err, &netErr) || errors.As(f.Err, &timeoutErr)
}

// Result is Success(T) or Failure.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Success wraps a value.
func Success[T any](v T) Result[T] { return Result[T]{value: v} }

// Failed wraps a failure.
func Failed[T any](f *Failure) Result[T] { return Result[T]{failure: f} }

// Unwrap returns the value or the *Failure as error.
func (r Result[T]) Unwrap() (T, error) {
	if r.failure != nil {
		var zero T
		return zero, r.failure
	}
	return r.value, nil
}

// Decode turns a client reply into a Result. body and err are the return
// values of Client.Get/Post/Patch.
func Decode[T any](body []byte, err error) Result[T] {
	if err != nil {
		return Failed[T](failureFromError(err))
	}

	var env envelope
	if jsonErr := json.Unmarshal(body, &env); jsonErr != nil {
		return Failed[T](&Failure{Message: "malformed backend response", Err: jsonErr})
	}
	if !env.IsSuccess {
		return Failed[T](&Failure{Message: env.Message, Details: env.Errors})
	}

	var value T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if jsonErr := json.Unmarshal(env.Data, &value); jsonErr != nil {
			return Failed[T](&Failure{Message: "malformed backend data", Err: fmt.Errorf("decode data: %w", jsonErr)})
		}
	}
	return Success(value)
}

func failureFromError(err error) *Failure {
	f := &Failure{Err: err}
	var httpErr *domainErrors.HTTPError
	if !errors.As(err, &httpErr) {
		return f
	}
	f.Status = httpErr.Status
	var env envelope
	if len(httpErr.Body) > 0 && json.Unmarshal(httpErr.Body, &env) == nil {
		f.Message = env.Message
		f.Details = env.Errors
	}
	return f
}
