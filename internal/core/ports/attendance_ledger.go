package ports

import (
	"context"
	"time"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
)

// AttendanceLedger is the append-only store of admitted events. Every call is
// a fresh round-trip to the backing store. Calendar days are derived from the
// location carried by the time arguments.
type AttendanceLedger interface {
	// HasEventToday reports whether subjectID already has an event on the
	// calendar day containing ref.
	HasEventToday(ctx context.Context, subjectID string, ref time.Time) (bool, error)

	// Append commits e. It must be atomic per (subject, day): when another
	// event for the same key already exists it returns
	// domain.ErrDuplicateAttendance and stores nothing.
	Append(ctx context.Context, e *domain.AttendanceEvent) (*domain.AttendanceEvent, error)

	// FindByDateRange returns events with start <= timestamp <= end in
	// ascending timestamp order. An empty status matches every status.
	FindByDateRange(ctx context.Context, start, end time.Time, status domain.AttendanceStatus) ([]*domain.AttendanceEvent, error)

	// LatestByUserSince returns the most recent event for subjectID at or
	// after since, or nil when there is none.
	LatestByUserSince(ctx context.Context, subjectID string, since time.Time) (*domain.AttendanceEvent, error)

	// DeleteForSubjectOnDate physically removes the subject's events on the
	// calendar day containing date and returns how many were removed.
	DeleteForSubjectOnDate(ctx context.Context, subjectID string, date time.Time) (int64, error)
}

// AdmissionGuard serializes the duplicate check and commit for one
// (subject, day) key across processes.
type AdmissionGuard interface {
	// Acquire blocks until the key is held or ctx ends. The returned release
	// func must be called once the commit finished.
	Acquire(ctx context.Context, subjectID, day string) (release func(), err error)
}
