package feishu

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is wrapped when a response lacks a field the client reads.
	ErrMissingField = errors.New("missing field in response")

	// ErrNoHomeDepartment is returned by home-department operations when no
	// override was set and the authorized departments list is empty.
	ErrNoHomeDepartment = errors.New("no home department: set one explicitly or grant the app a department scope")
)

// AuthError reports a failure to obtain the app access token.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "feishu auth: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// StatusError is returned when the platform answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// DecodeError reports a response body that is not JSON or lacks an expected field.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
