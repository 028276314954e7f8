package domain

import "time"

// PresentEntry is a projection of an admitted event for the daily report.
type PresentEntry struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// AbsentEntry is a roster subject without an admitted event that day.
type AbsentEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Report is the present/absent roster for one calendar day.
// PresentCount + AbsentCount always equals TotalSubjects.
type Report struct {
	Date          string         `json:"date"`
	TotalSubjects int            `json:"total"`
	PresentCount  int            `json:"present"`
	AbsentCount   int            `json:"absent"`
	Present       []PresentEntry `json:"present_students"`
	Absent        []AbsentEntry  `json:"absent_students"`
}

// RangeStatus classifies a subject's last reported position.
type RangeStatus string

const (
	RangeWithin   RangeStatus = "within_range"
	RangeOutside  RangeStatus = "out_of_range"
	RangeNoReport RangeStatus = "no_report"
)

// StudentStatus is one row of the live-location snapshot. Position,
// DistanceKm and ReportedAt are nil for subjects with no report since the
// admission window opened.
type StudentStatus struct {
	SubjectID  string       `json:"subject_id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Position   *Coordinates `json:"position"`
	ReportedAt *time.Time   `json:"timestamp"`
	DistanceKm *float64     `json:"distance_km"`
	Status     RangeStatus  `json:"status"`
}
