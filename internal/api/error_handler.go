package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/biometric"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// knownError maps a domain sentinel to its status. An empty message keeps
// the sentinel's own text.
type knownError struct {
	target  error
	status  int
	message string
}

// Checked in order; the first errors.Is match wins.
var knownErrors = []knownError{
	{domain.ErrMissingDate, http.StatusBadRequest, ""},
	{domain.ErrInvalidDate, http.StatusBadRequest, ""},
	{domain.ErrInvalidSubjectID, http.StatusBadRequest, ""},
	{domain.ErrInvalidRole, http.StatusBadRequest, ""},
	{domain.ErrNoBiometric, http.StatusBadRequest, ""},
	{biometric.ErrDimensionMismatch, http.StatusBadRequest, ""},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrOutsideTracking, http.StatusForbidden, ""},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrSubjectNotFound, http.StatusNotFound, "subject not found"},
	{domain.ErrSubjectExists, http.StatusConflict, "subject already exists"},
	{domain.ErrDuplicateAttendance, http.StatusConflict, ""},
}

// NewHTTPErrorHandler renders every error as {"error": "..."}. Domain errors
// get their mapped status; anything unrecognised is logged and reported as a
// bare 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, k := range knownErrors {
		if errors.Is(err, k.target) {
			if k.message == "" {
				return k.status, err.Error()
			}
			return k.status, k.message
		}
	}

	return http.StatusInternalServerError, "internal server error"
}
