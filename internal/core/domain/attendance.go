package domain

import (
	"errors"
	"time"
)

// AttendanceStatus tags a ledger entry. The verification pipeline only
// produces StatusPresent.
type AttendanceStatus string

const StatusPresent AttendanceStatus = "present"

var (
	ErrDuplicateAttendance = errors.New("attendance already marked today")
	ErrMissingDate         = errors.New("date parameter required")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrOutsideTracking     = errors.New("live tracking is not available at this time")
)

// dayKeyLayout formats the calendar day used for the one-event-per-day key.
const dayKeyLayout = "2006-01-02"

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"latitude" bson:"latitude"`
	Lng float64 `json:"longitude" bson:"longitude"`
}

// AttendanceEvent is one admitted presence record. Name and Email are copied
// from the subject at admission time and never follow later roster edits.
type AttendanceEvent struct {
	ID        string           `json:"id"`
	SubjectID string           `json:"subject_id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Timestamp time.Time        `json:"timestamp"`
	Day       string           `json:"day"`
	Location  Coordinates      `json:"location"`
	Status    AttendanceStatus `json:"status"`
}

// DayBounds returns midnight and 23:59:59.999 of the calendar day containing
// t, in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}

// DayKey identifies the calendar day containing t, in t's location.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// ParseDay parses a YYYY-MM-DD date at midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrMissingDate
	}
	d, err := time.ParseInLocation(dayKeyLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}
