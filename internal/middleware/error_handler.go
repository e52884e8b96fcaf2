package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"shopBackend/domain"
	"shopBackend/pkg/logger"

	jsonres "shopBackend/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler. Domain error kinds map to
// status codes, everything unknown becomes a 500 without leaking details.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, jsonres.Error(errorCode(status), message, nil))
	}
	if err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code, fmt.Sprint(he.Message)
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}

// errorCode turns a status into the envelope code, e.g. 404 -> NOT_FOUND.
func errorCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
