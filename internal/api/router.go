package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/api/handler"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/api/middleware"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
)

// Dependencies are the services the router exposes.
type Dependencies struct {
	Log       zerolog.Logger
	JWTSecret string
	// Location is the reference timezone for YYYY-MM-DD query dates.
	Location *time.Location

	Auth         ports.AuthService
	Verification ports.VerificationService
	Reports      ports.ReportService
	Live         ports.LiveLocationService
	Resets       ports.ResetService
	Roster       ports.RosterProvider

	// Health lists the dependencies checked by /health/ready.
	Health map[string]handler.Pinger
	// Registerer receives the HTTP metrics; nil uses the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "attendance",
		Registerer: d.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	attendanceHandler := handler.NewAttendanceHandler(d.Verification, d.Reports, d.Live, d.Resets, d.Location)
	subjectHandler := handler.NewSubjectHandler(d.Roster)
	healthHandler := handler.NewHealthHandler(d.Health)

	authMiddleware := middleware.Auth(d.JWTSecret)
	subjectOnly := middleware.RBAC(domain.RoleSubject)
	supervisorOnly := middleware.RBAC(domain.RoleSupervisor)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Attendance ---
	v1 := e.Group("/v1", authMiddleware)
	v1.POST("/attendance/mark", attendanceHandler.Mark, subjectOnly)
	v1.GET("/attendance/daily-report", attendanceHandler.DailyReport, supervisorOnly)
	v1.POST("/attendance/reset", attendanceHandler.Reset, supervisorOnly)
	v1.GET("/attendance/live-locations", attendanceHandler.LiveLocations, supervisorOnly)
	v1.GET("/subjects", subjectHandler.List, supervisorOnly)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
