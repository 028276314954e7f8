package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
)

// AttendanceHandler serves marking, reporting, reset and live tracking.
type AttendanceHandler struct {
	verifier ports.VerificationService
	reports  ports.ReportService
	live     ports.LiveLocationService
	resets   ports.ResetService
	loc      *time.Location
	now      func() time.Time
}

// NewAttendanceHandler creates an AttendanceHandler. loc is the reference
// timezone used to interpret YYYY-MM-DD dates.
func NewAttendanceHandler(
	verifier ports.VerificationService,
	reports ports.ReportService,
	live ports.LiveLocationService,
	resets ports.ResetService,
	loc *time.Location,
) *AttendanceHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceHandler{
		verifier: verifier,
		reports:  reports,
		live:     live,
		resets:   resets,
		loc:      loc,
		now:      time.Now,
	}
}

// Mark handles POST /v1/attendance/mark.
//
// @Summary      Mark attendance with face and location
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      markAttendanceRequest  true  "Face descriptor and current position"
// @Success      201   {object}  markAttendanceResponse
// @Failure      400   {object}  rejectionResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  rejectionResponse
// @Failure      404   {object}  rejectionResponse
// @Failure      409   {object}  rejectionResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/attendance/mark [post]
func (h *AttendanceHandler) Mark(c echo.Context) error {
	subjectID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req markAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	decision, err := h.verifier.Verify(c.Request().Context(), ports.VerifyInput{
		SubjectID:      subjectID,
		FaceDescriptor: req.FaceDescriptor,
		Location:       domain.Coordinates{Lat: *req.Latitude, Lng: *req.Longitude},
		Now:            h.now(),
	})
	if err != nil {
		return err
	}

	if !decision.Admitted {
		resp := rejectionResponse{Error: decision.Message, Reason: string(decision.Reason)}
		if decision.DistanceKm != nil {
			d := round2(*decision.DistanceKm)
			resp.DistanceKm = &d
		}
		return c.JSON(rejectionStatus(decision.Reason), resp)
	}

	return c.JSON(http.StatusCreated, markAttendanceResponse{
		Success:    true,
		Attendance: toAttendanceResponse(decision.Event),
	})
}

// DailyReport handles GET /v1/attendance/daily-report.
//
// @Summary      Present and absent subjects for one day
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  true  "Calendar day (YYYY-MM-DD)"
// @Success      200   {object}  domain.Report
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/attendance/daily-report [get]
func (h *AttendanceHandler) DailyReport(c echo.Context) error {
	day, err := domain.ParseDay(c.QueryParam("date"), h.loc)
	if err != nil {
		return err
	}

	report, err := h.reports.BuildReport(c.Request().Context(), day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// Reset handles POST /v1/attendance/reset.
//
// @Summary      Remove a subject's attendance for one day
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resetAttendanceRequest  true  "Subject and optional day (defaults to today)"
// @Success      200   {object}  resetAttendanceResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/attendance/reset [post]
func (h *AttendanceHandler) Reset(c echo.Context) error {
	var req resetAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	var day time.Time
	if req.Date != "" {
		var err error
		if day, err = domain.ParseDay(req.Date, h.loc); err != nil {
			return err
		}
	}

	result, err := h.resets.Reset(c.Request().Context(), req.SubjectID, day)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resetAttendanceResponse{
		Message:      "attendance reset",
		SubjectID:    result.SubjectID,
		Date:         result.Date,
		DeletedCount: result.DeletedCount,
	})
}

// LiveLocations handles GET /v1/attendance/live-locations.
//
// @Summary      Last reported position of every subject
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  liveLocationsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/attendance/live-locations [get]
func (h *AttendanceHandler) LiveLocations(c echo.Context) error {
	rows, err := h.live.Snapshot(c.Request().Context(), h.now())
	if err != nil {
		return err
	}

	data := make([]liveLocationEntry, 0, len(rows))
	for _, r := range rows {
		data = append(data, toLiveLocationEntry(r))
	}
	return c.JSON(http.StatusOK, liveLocationsResponse{Success: true, Count: len(data), Data: data})
}

func rejectionStatus(reason domain.RejectReason) int {
	switch reason {
	case domain.ReasonSubjectNotFound:
		return http.StatusNotFound
	case domain.ReasonNoBiometricEnrolled, domain.ReasonDimensionMismatch:
		return http.StatusBadRequest
	case domain.ReasonDuplicateForToday:
		return http.StatusConflict
	default:
		return http.StatusForbidden
	}
}
