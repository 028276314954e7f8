package handler

import (
	"math"
	"time"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
)

// --- Request types ---

type markAttendanceRequest struct {
	FaceDescriptor []float64 `json:"face_descriptor" validate:"required,min=1"`
	Latitude       *float64  `json:"latitude"        validate:"required,latitude"`
	Longitude      *float64  `json:"longitude"       validate:"required,longitude"`
}

type resetAttendanceRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	// Date is YYYY-MM-DD; empty means today.
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// --- Response types ---

// errorResponse documents the envelope rendered by the central error handler.
type errorResponse struct {
	Error string `json:"error"`
}

type attendanceResponse struct {
	ID        string             `json:"id"`
	SubjectID string             `json:"subject_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Timestamp time.Time          `json:"timestamp"`
	Location  domain.Coordinates `json:"location"`
	Status    string             `json:"status"`
}

type markAttendanceResponse struct {
	Success    bool               `json:"success"`
	Attendance attendanceResponse `json:"attendance"`
}

type rejectionResponse struct {
	Error      string   `json:"error"`
	Reason     string   `json:"reason"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type resetAttendanceResponse struct {
	Message      string `json:"message"`
	SubjectID    string `json:"subject_id"`
	Date         string `json:"date"`
	DeletedCount int64  `json:"deleted_count"`
}

type liveLocationEntry struct {
	SubjectID  string              `json:"subject_id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Position   *domain.Coordinates `json:"position"`
	Timestamp  *time.Time          `json:"timestamp"`
	DistanceKm *float64            `json:"distance_km"`
	Status     string              `json:"status"`
}

type liveLocationsResponse struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Data    []liveLocationEntry `json:"data"`
}

// --- Mapping ---

func toAttendanceResponse(e *domain.AttendanceEvent) attendanceResponse {
	return attendanceResponse{
		ID:        e.ID,
		SubjectID: e.SubjectID,
		Name:      e.Name,
		Email:     e.Email,
		Timestamp: e.Timestamp,
		Location:  e.Location,
		Status:    string(e.Status),
	}
}

func toLiveLocationEntry(s domain.StudentStatus) liveLocationEntry {
	entry := liveLocationEntry{
		SubjectID: s.SubjectID,
		Name:      s.Name,
		Email:     s.Email,
		Position:  s.Position,
		Timestamp: s.ReportedAt,
		Status:    string(s.Status),
	}
	if s.DistanceKm != nil {
		d := round2(*s.DistanceKm)
		entry.DistanceKm = &d
	}
	return entry
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
