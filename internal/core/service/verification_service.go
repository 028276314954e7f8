package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/biometric"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/geo"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/schedule"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/pkg/metrics"
)

// Policy is the read-only configuration shared by every request.
type Policy struct {
	Fence    geo.Fence
	Matcher  biometric.Matcher
	Schedule schedule.Policy
}

type VerificationService struct {
	roster ports.RosterProvider
	ledger ports.AttendanceLedger
	guard  ports.AdmissionGuard // optional
	policy Policy
	log    zerolog.Logger
	newID  func() string
}

// NewVerificationService returns a VerificationService. guard may be nil, in
// which case the ledger's unique (subject, day) constraint alone settles
// concurrent admissions.
func NewVerificationService(
	roster ports.RosterProvider,
	ledger ports.AttendanceLedger,
	guard ports.AdmissionGuard,
	policy Policy,
	log zerolog.Logger,
) *VerificationService {
	return &VerificationService{
		roster: roster,
		ledger: ledger,
		guard:  guard,
		policy: policy,
		log:    log,
		newID:  uuid.NewString,
	}
}

// Verify runs the admission pipeline for one attempt. Rejections are returned
// as a Decision with a nil error; a non-nil error always means nothing was
// admitted.
func (s *VerificationService) Verify(ctx context.Context, in ports.VerifyInput) (domain.Decision, error) {
	start := time.Now()
	decision, err := s.verify(ctx, in)

	outcome := "rejected"
	switch {
	case err != nil:
		outcome = "error"
	case decision.Admitted:
		outcome = "admitted"
		metrics.DecisionsTotal.WithLabelValues(outcome, "").Inc()
	default:
		metrics.DecisionsTotal.WithLabelValues(outcome, string(decision.Reason)).Inc()
	}
	metrics.VerificationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return decision, err
}

func (s *VerificationService) verify(ctx context.Context, in ports.VerifyInput) (domain.Decision, error) {
	now := s.policy.Schedule.Local(in.Now)

	// 1. Resolve the subject.
	subject, err := s.roster.FindSubject(ctx, in.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrSubjectNotFound) || errors.Is(err, domain.ErrInvalidSubjectID) {
			return domain.Reject(domain.ReasonSubjectNotFound, "subject not found"), nil
		}
		metrics.VerificationErrorsTotal.WithLabelValues("roster").Inc()
		return domain.Decision{}, fmt.Errorf("verify: find subject: %w", err)
	}

	// 2. A reference descriptor must be enrolled.
	if !subject.Enrolled() {
		return domain.Reject(domain.ReasonNoBiometricEnrolled, "no face registered for this account"), nil
	}

	// 3. Compare the candidate descriptor.
	matched, distance, err := s.policy.Matcher.IsMatch(in.FaceDescriptor, subject.FaceDescriptor)
	if err != nil {
		if errors.Is(err, biometric.ErrDimensionMismatch) {
			return domain.Reject(domain.ReasonDimensionMismatch, "face descriptor does not match the enrolled dimension"), nil
		}
		return domain.Decision{}, fmt.Errorf("verify: match face: %w", err)
	}
	if !matched {
		s.log.Debug().
			Str("subject_id", subject.ID).
			Float64("distance", distance).
			Msg("face verification failed")
		return domain.Reject(domain.ReasonBiometricMismatch, "face verification failed, please try again"), nil
	}

	// 4. Admission window.
	if !s.policy.Schedule.InAdmissionWindow(now) {
		return domain.Reject(domain.ReasonOutsideWindow,
			fmt.Sprintf("attendance can only be marked between %s", s.policy.Schedule.Admission)), nil
	}

	// 5. Geofence.
	within, km := s.policy.Fence.Check(in.Location.Lat, in.Location.Lng)
	if !within {
		return domain.RejectOutsideGeofence(km), nil
	}

	// 6 + 7. Duplicate guard and commit.
	return s.admit(ctx, subject, in.Location, now)
}

// admit performs the duplicate check and the append as one critical section
// per (subject, day). The ledger's own uniqueness check is the last line: a
// losing Append surfaces as ErrDuplicateAttendance.
func (s *VerificationService) admit(ctx context.Context, subject *domain.Subject, loc domain.Coordinates, now time.Time) (domain.Decision, error) {
	day := domain.DayKey(now)

	if s.guard != nil {
		release, err := s.guard.Acquire(ctx, subject.ID, day)
		if err != nil {
			metrics.VerificationErrorsTotal.WithLabelValues("lock").Inc()
			return domain.Decision{}, fmt.Errorf("verify: acquire admission lock: %w", err)
		}
		defer release()
	}

	exists, err := s.ledger.HasEventToday(ctx, subject.ID, now)
	if err != nil {
		metrics.VerificationErrorsTotal.WithLabelValues("duplicate_check").Inc()
		return domain.Decision{}, fmt.Errorf("verify: duplicate check: %w", err)
	}
	if exists {
		return duplicate(), nil
	}

	event := &domain.AttendanceEvent{
		ID:        s.newID(),
		SubjectID: subject.ID,
		Email:     subject.Email,
		Name:      subject.Name,
		Timestamp: now,
		Day:       day,
		Location:  loc,
		Status:    domain.StatusPresent,
	}

	stored, err := s.ledger.Append(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAttendance) {
			return duplicate(), nil
		}
		metrics.VerificationErrorsTotal.WithLabelValues("append").Inc()
		return domain.Decision{}, fmt.Errorf("verify: append: %w", err)
	}

	s.log.Info().
		Str("subject_id", subject.ID).
		Str("event_id", stored.ID).
		Str("day", day).
		Msg("attendance admitted")

	return domain.Admit(stored), nil
}

func duplicate() domain.Decision {
	return domain.Reject(domain.ReasonDuplicateForToday, "attendance already marked today")
}
