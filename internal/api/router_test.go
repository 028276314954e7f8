package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
)

const testSecret = "router-secret"

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type nopAuth struct{}

func (nopAuth) Register(context.Context, ports.RegisterInput) (*domain.Subject, error) {
	return nil, domain.ErrInvalidCredentials
}

func (nopAuth) Login(context.Context, string, string) (string, *domain.Subject, error) {
	return "", nil, domain.ErrInvalidCredentials
}

type fixedVerifier struct{ decision domain.Decision }

func (v fixedVerifier) Verify(context.Context, ports.VerifyInput) (domain.Decision, error) {
	return v.decision, nil
}

type emptyReports struct{}

func (emptyReports) BuildReport(_ context.Context, date time.Time) (*domain.Report, error) {
	return &domain.Report{Date: domain.DayKey(date), Present: []domain.PresentEntry{}, Absent: []domain.AbsentEntry{}}, nil
}

type closedLive struct{}

func (closedLive) Snapshot(context.Context, time.Time) ([]domain.StudentStatus, error) {
	return nil, domain.ErrOutsideTracking
}

type invalidResets struct{}

func (invalidResets) Reset(context.Context, string, time.Time) (*ports.ResetResult, error) {
	return nil, domain.ErrInvalidSubjectID
}

type emptyRoster struct{}

func (emptyRoster) FindSubject(context.Context, string) (*domain.Subject, error) {
	return nil, domain.ErrSubjectNotFound
}

func (emptyRoster) ListSubjects(context.Context, string) ([]*domain.Subject, error) {
	return nil, nil
}

func newTestRouter(verifier ports.VerificationService) *echo.Echo {
	return NewRouter(Dependencies{
		Log:          zerolog.Nop(),
		JWTSecret:    testSecret,
		Location:     time.UTC,
		Auth:         nopAuth{},
		Verification: verifier,
		Reports:      emptyReports{},
		Live:         closedLive{},
		Resets:       invalidResets{},
		Roster:       emptyRoster{},
		Registerer:   prometheus.NewRegistry(),
	})
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"subject_id": "s1",
		"email":      "s1@example.com",
		"role":       role,
		"exp":        time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func do(e *echo.Echo, method, target, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_RoleGates(t *testing.T) {
	e := newTestRouter(fixedVerifier{decision: domain.Reject(domain.ReasonDuplicateForToday, "dup")})
	mark := `{"face_descriptor":[0.1],"latitude":23.25,"longitude":77.45}`

	cases := []struct {
		name   string
		method string
		target string
		auth   string
		body   string
		want   int
	}{
		{"mark without token", http.MethodPost, "/v1/attendance/mark", "", mark, http.StatusUnauthorized},
		{"mark as supervisor", http.MethodPost, "/v1/attendance/mark", bearer(t, domain.RoleSupervisor), mark, http.StatusForbidden},
		{"mark as subject", http.MethodPost, "/v1/attendance/mark", bearer(t, domain.RoleSubject), mark, http.StatusConflict},
		{"report as subject", http.MethodGet, "/v1/attendance/daily-report?date=2026-10-16", bearer(t, domain.RoleSubject), "", http.StatusForbidden},
		{"report as supervisor", http.MethodGet, "/v1/attendance/daily-report?date=2026-10-16", bearer(t, domain.RoleSupervisor), "", http.StatusOK},
		{"report without date", http.MethodGet, "/v1/attendance/daily-report", bearer(t, domain.RoleSupervisor), "", http.StatusBadRequest},
		{"live outside window", http.MethodGet, "/v1/attendance/live-locations", bearer(t, domain.RoleSupervisor), "", http.StatusForbidden},
		{"reset invalid id", http.MethodPost, "/v1/attendance/reset", bearer(t, domain.RoleSupervisor), `{"subject_id":"zzz"}`, http.StatusBadRequest},
		{"subjects as supervisor", http.MethodGet, "/v1/subjects", bearer(t, domain.RoleSupervisor), "", http.StatusOK},
		{"subjects bad role", http.MethodGet, "/v1/subjects?role=admin", bearer(t, domain.RoleSupervisor), "", http.StatusBadRequest},
		{"login rejected", http.MethodPost, "/auth/login", "", `{"email":"asha@example.com","password":"x"}`, http.StatusUnauthorized},
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
		{"readiness", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, tc.method, tc.target, tc.auth, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	e := newTestRouter(fixedVerifier{})

	rec := do(e, http.MethodGet, "/v1/attendance/live-locations", bearer(t, domain.RoleSupervisor), "")

	if !strings.Contains(rec.Body.String(), `"error":"live tracking is not available at this time"`) {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}
