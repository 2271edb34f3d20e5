package server

import (
	"errors"
	"net/http"

	"github.com/UnknownOlympus/functions/internal/functions"
	"github.com/go-chi/render"
)

// ErrResponse is the JSON body of every failed request.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`               // user-level status message
	ErrorText     string   `json:"error,omitempty"`      // application-level error message
	ErrValidation []string `json:"validation,omitempty"` // per-field validation messages
}

func (e *ErrResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, fields []string) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      "payload validation failed",
		ErrValidation:  fields,
	}
}

func ErrNotFound(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Not found.",
		ErrorText:      err.Error(),
	}
}

func ErrTooLarge(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusRequestEntityTooLarge,
		StatusText:     "Payload too large.",
		ErrorText:      err.Error(),
	}
}

func ErrUnavailable(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusServiceUnavailable,
		StatusText:     "Service unavailable.",
		ErrorText:      err.Error(),
	}
}

// ErrInternal hides the underlying error from the client.
func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      "internal server error",
	}
}

// errorRenderer classifies an invocation error into its HTTP representation.
func errorRenderer(err error) render.Renderer {
	var validationErr *functions.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return ErrValidation(err, validationErr.Fields)
	case errors.Is(err, functions.ErrInvalidArgument):
		return ErrInvalidRequest(err)
	case errors.Is(err, functions.ErrFunctionNotFound):
		return ErrNotFound(err)
	case errors.Is(err, functions.ErrUnavailable):
		return ErrUnavailable(err)
	default:
		return ErrInternal(err)
	}
}
