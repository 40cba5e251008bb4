package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/chimei/internal/inference"
)

func writeBadRequest(c *echo.Context, msg, param string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, param, "")
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Code:    code,
			Param:   param,
		},
	})
}

// writeGenerationError maps core errors onto HTTP statuses.
func writeGenerationError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return writeBadRequest(c, err.Error(), errorParam(err))
	case errors.Is(err, inference.ErrInvalidCount):
		return writeBadRequest(c, err.Error(), "count")
	case errors.Is(err, inference.ErrEngineInit):
		return writeError(c, http.StatusServiceUnavailable, "engine_unavailable", err.Error(), "", "engine_init_failed")
	case errors.Is(err, inference.ErrInference):
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "inference_failed")
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		return out, err
	}
	return out, nil
}

func newNamesID() string {
	return "names_" + uuid.NewString()
}
