package predictor

import (
	"errors"
	"fmt"
)

// NetworkError means the request never produced an HTTP response:
// DNS failure, refused connection, timeout or cancellation.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("prediction backend unreachable (%s): %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError means the backend answered with a non-2xx status.
type ServerError struct {
	StatusCode int
	Message    string // backend {"error": ...} message when present
	Body       string // truncated raw body
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("prediction backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("prediction backend returned %d", e.StatusCode)
}

// DecodeError means a 2xx body was not JSON or lacked win_probability.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid prediction response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrMissingProbability is wrapped by DecodeError when the field is absent or null
var ErrMissingProbability = errors.New("response has no win_probability")

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Kind classifies err into the label used by metrics and API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsNetworkError(err):
		return "network"
	case IsServerError(err):
		return "server"
	case IsDecodeError(err):
		return "decode"
	}
	return "unknown"
}
