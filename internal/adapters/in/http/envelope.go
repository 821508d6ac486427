package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrBadRequest marks malformed input caught before a command is built.
var ErrBadRequest = errors.New("malformed request")

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// classify maps an error to its status code and machine-readable code.
func classify(err error) (int, string) {
	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrWrongRole), errors.Is(err, errs.ErrActionIsForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrVersionIsInvalid), errors.Is(err, errs.ErrObjectAlreadyExist):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, "validation_failed"
	case errors.As(err, &httpErr):
		return httpErr.Code, http.StatusText(httpErr.Code)
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ErrorHandler renders every error returned by handlers and middleware as
// the failure envelope. Server errors are logged and never echoed.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code := classify(err)
		message := err.Error()
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		}
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "Request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
			message = "Internal server error"
		}

		body := envelope{Success: false, Message: message, Error: code}
		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "Failed to write error response", "error", writeErr)
		}
	}
}
