package ports

import (
	"context"
	"time"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
)

// VerifyInput is one attendance attempt. Now is the instant of the attempt;
// services convert it into the reference timezone.
type VerifyInput struct {
	SubjectID      string
	FaceDescriptor []float64
	Location       domain.Coordinates
	Now            time.Time
}

// VerificationService decides whether to admit an attendance event.
// Policy rejections are returned as a Decision; only infrastructure failures
// produce an error.
type VerificationService interface {
	Verify(ctx context.Context, in VerifyInput) (domain.Decision, error)
}

// ReportService builds the daily present/absent report.
type ReportService interface {
	BuildReport(ctx context.Context, date time.Time) (*domain.Report, error)
}

// LiveLocationService builds the live-location snapshot.
type LiveLocationService interface {
	Snapshot(ctx context.Context, now time.Time) ([]domain.StudentStatus, error)
}

// ResetResult is returned by ResetService.Reset.
type ResetResult struct {
	SubjectID    string
	Date         string
	DeletedCount int64
}

// ResetService removes one subject's attendance for a calendar day.
type ResetService interface {
	Reset(ctx context.Context, subjectID string, date time.Time) (*ResetResult, error)
}
