package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Kind  domain.Kind `json:"kind"`
	Error string      `json:"error"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindUnauthenticated: http.StatusUnauthorized,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindValidation:      http.StatusBadRequest,
	domain.KindConflict:        http.StatusConflict,
	domain.KindStorage:         http.StatusInternalServerError,
	domain.KindInternal:        http.StatusInternalServerError,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain error
// kinds to status codes and renders {"kind": ..., "error": ...}. Storage and
// unexpected errors are logged and answered with a generic message.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors: bind failures, unknown routes, rate limiting.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Kind: kindForStatus(he.Code), Error: fmt.Sprintf("%v", he.Message)}
	}

	kind := domain.KindOf(err)
	code := kindStatus[kind]
	if code < http.StatusInternalServerError {
		return code, errorResponse{Kind: kind, Error: err.Error()}
	}

	log.Error().
		Err(err).
		Str("kind", string(kind)).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request failed")

	msg := "internal server error"
	if kind == domain.KindStorage {
		msg = "storage failure"
	}
	return code, errorResponse{Kind: kind, Error: msg}
}

func kindForStatus(code int) domain.Kind {
	switch code {
	case http.StatusUnauthorized:
		return domain.KindUnauthenticated
	case http.StatusForbidden:
		return domain.KindForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return domain.KindNotFound
	case http.StatusConflict:
		return domain.KindConflict
	}
	if code >= http.StatusInternalServerError {
		return domain.KindInternal
	}
	return domain.KindValidation
}
