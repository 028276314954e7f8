package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/schedule"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/pkg/metrics"
)

type ResetService struct {
	roster   ports.RosterProvider
	ledger   ports.AttendanceLedger
	notices  ports.NoticeQueue // optional
	schedule schedule.Policy
	log      zerolog.Logger
	now      func() time.Time
}

func NewResetService(
	roster ports.RosterProvider,
	ledger ports.AttendanceLedger,
	notices ports.NoticeQueue,
	sched schedule.Policy,
	log zerolog.Logger,
) *ResetService {
	return &ResetService{
		roster:   roster,
		ledger:   ledger,
		notices:  notices,
		schedule: sched,
		log:      log,
		now:      time.Now,
	}
}

// Reset deletes every event of subjectID on the calendar day containing date
// (today when date is zero). Deleting from an empty day is not an error. The
// subject is notified asynchronously; notification problems never fail the
// reset.
func (s *ResetService) Reset(ctx context.Context, subjectID string, date time.Time) (*ports.ResetResult, error) {
	if date.IsZero() {
		date = s.now()
	}
	day := s.schedule.Local(date)

	subject, err := s.roster.FindSubject(ctx, subjectID)
	switch {
	case errors.Is(err, domain.ErrInvalidSubjectID):
		return nil, err
	case errors.Is(err, domain.ErrSubjectNotFound):
		subject = nil
	case err != nil:
		s.log.Warn().Err(err).Str("subject_id", subjectID).Msg("roster lookup failed, reset will not be notified")
		subject = nil
	}

	deleted, err := s.ledger.DeleteForSubjectOnDate(ctx, subjectID, day)
	if err != nil {
		return nil, fmt.Errorf("reset attendance: %w", err)
	}

	metrics.ResetsTotal.Inc()
	metrics.ResetEventsDeletedTotal.Add(float64(deleted))

	s.log.Info().
		Str("subject_id", subjectID).
		Str("day", domain.DayKey(day)).
		Int64("deleted", deleted).
		Msg("attendance reset")

	if subject != nil && s.notices != nil {
		s.notices.Enqueue(ports.ResetNotice{
			SubjectID:    subject.ID,
			Name:         subject.Name,
			Email:        subject.Email,
			Date:         day,
			DeletedCount: deleted,
		})
	}

	return &ports.ResetResult{
		SubjectID:    subjectID,
		Date:         domain.DayKey(day),
		DeletedCount: deleted,
	}, nil
}
