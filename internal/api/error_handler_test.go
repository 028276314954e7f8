package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/biometric"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{echo.NewHTTPError(http.StatusUnprocessableEntity, "latitude is required"), http.StatusUnprocessableEntity, "latitude is required"},
		{domain.ErrMissingDate, http.StatusBadRequest, domain.ErrMissingDate.Error()},
		{fmt.Errorf("reset: %w", domain.ErrInvalidSubjectID), http.StatusBadRequest, "reset: " + domain.ErrInvalidSubjectID.Error()},
		{biometric.ErrDimensionMismatch, http.StatusBadRequest, biometric.ErrDimensionMismatch.Error()},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrOutsideTracking, http.StatusForbidden, domain.ErrOutsideTracking.Error()},
		{fmt.Errorf("lookup: %w", domain.ErrSubjectNotFound), http.StatusNotFound, "subject not found"},
		{domain.ErrSubjectExists, http.StatusConflict, "subject already exists"},
		{domain.ErrDuplicateAttendance, http.StatusConflict, domain.ErrDuplicateAttendance.Error()},
		{errors.New("connection reset by peer"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		code, msg := resolveError(tc.err)
		if code != tc.wantCode || msg != tc.wantMsg {
			t.Errorf("%v: got (%d, %q), want (%d, %q)", tc.err, code, msg, tc.wantCode, tc.wantMsg)
		}
	}
}

func TestHTTPErrorHandler_HidesAndLogsUnexpectedErrors(t *testing.T) {
	var logs strings.Builder
	h := NewHTTPErrorHandler(zerolog.New(&logs))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/attendance/live-locations", nil), rec)

	h(errors.New("mongo: server selection timeout"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "server selection timeout") {
		t.Fatalf("expected the cause to be logged, got %q", logs.String())
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponses(t *testing.T) {
	h := NewHTTPErrorHandler(zerolog.Nop())

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	h(domain.ErrSubjectNotFound, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
