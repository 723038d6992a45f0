package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps auth failures and domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Login, register and profile failures carry a message meant for the user.
	var af *domain.AuthFailure
	if errors.As(err, &af) {
		switch af.Kind {
		case domain.FailureValidation:
			return http.StatusBadRequest, af.Message
		case domain.FailureNetwork:
			return http.StatusServiceUnavailable, af.Message
		default:
			return http.StatusUnauthorized, af.Message
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrOwnRole),
		errors.Is(err, domain.ErrDeleteSelf):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	}

	var ae *domain.APIError
	if errors.As(err, &ae) {
		switch {
		case ae.Status == http.StatusNotFound:
			return http.StatusNotFound, messageOr(ae.Message, "not found")
		case ae.Status < http.StatusInternalServerError:
			return ae.Status, messageOr(ae.Message, http.StatusText(ae.Status))
		default:
			log.Warn().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("marketplace api error")
			return http.StatusBadGateway, "upstream error"
		}
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, domain.ConnectionErrorMessage
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
