package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/schedule"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/pkg/metrics"
)

type ReportService struct {
	roster   ports.RosterProvider
	ledger   ports.AttendanceLedger
	schedule schedule.Policy
	log      zerolog.Logger
}

func NewReportService(roster ports.RosterProvider, ledger ports.AttendanceLedger, sched schedule.Policy, log zerolog.Logger) *ReportService {
	return &ReportService{roster: roster, ledger: ledger, schedule: sched, log: log}
}

// BuildReport joins the subject roster against the admitted events of the
// calendar day containing date. Absence is decided by email, since events
// keep the email the subject had when admitted.
func (s *ReportService) BuildReport(ctx context.Context, date time.Time) (*domain.Report, error) {
	if date.IsZero() {
		return nil, domain.ErrMissingDate
	}

	day := s.schedule.Local(date)
	start, end := domain.DayBounds(day)

	var (
		subjects []*domain.Subject
		events   []*domain.AttendanceEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subjects, err = s.roster.ListSubjects(gctx, domain.RoleSubject)
		if err != nil {
			return fmt.Errorf("build report: list subjects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.ledger.FindByDateRange(gctx, start, end, domain.StatusPresent)
		if err != nil {
			return fmt.Errorf("build report: find events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	present := make([]domain.PresentEntry, 0, len(events))
	presentEmails := make(map[string]struct{}, len(events))
	for _, e := range events {
		present = append(present, domain.PresentEntry{
			Name:      e.Name,
			Email:     e.Email,
			Timestamp: s.schedule.Local(e.Timestamp),
		})
		presentEmails[e.Email] = struct{}{}
	}

	absent := make([]domain.AbsentEntry, 0)
	for _, subj := range subjects {
		if _, ok := presentEmails[subj.Email]; ok {
			continue
		}
		absent = append(absent, domain.AbsentEntry{ID: subj.ID, Name: subj.Name, Email: subj.Email})
	}

	metrics.ReportsBuiltTotal.Inc()

	report := &domain.Report{
		Date:          domain.DayKey(day),
		TotalSubjects: len(subjects),
		PresentCount:  len(subjects) - len(absent),
		AbsentCount:   len(absent),
		Present:       present,
		Absent:        absent,
	}

	s.log.Debug().
		Str("date", report.Date).
		Int("total", report.TotalSubjects).
		Int("present", report.PresentCount).
		Int("events", len(events)).
		Msg("daily report built")

	return report, nil
}
