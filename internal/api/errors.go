package api

import (
	"errors"
	"fmt"
)

var ErrInvalidRequest = errors.New("invalid request")

// ParamError rejects one request field, named as the client sent it
// (count, seed, raw). It matches ErrInvalidRequest.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return e.Param + ": " + e.Reason
}

func (e *ParamError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func invalidParam(param, format string, args ...any) error {
	return &ParamError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// errorParam names the offending field of err, if any.
func errorParam(err error) string {
	var pe *ParamError
	if errors.As(err, &pe) {
		return pe.Param
	}
	return ""
}
