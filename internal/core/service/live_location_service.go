package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/geo"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/schedule"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/pkg/metrics"
)

const defaultLookupConcurrency = 8

type LiveLocationService struct {
	roster      ports.RosterProvider
	ledger      ports.AttendanceLedger
	fence       geo.Fence
	schedule    schedule.Policy
	concurrency int
	log         zerolog.Logger
}

// NewLiveLocationService returns a LiveLocationService that runs at most
// concurrency ledger lookups at a time (defaultLookupConcurrency if <= 0).
func NewLiveLocationService(
	roster ports.RosterProvider,
	ledger ports.AttendanceLedger,
	fence geo.Fence,
	sched schedule.Policy,
	concurrency int,
	log zerolog.Logger,
) *LiveLocationService {
	if concurrency <= 0 {
		concurrency = defaultLookupConcurrency
	}
	return &LiveLocationService{
		roster:      roster,
		ledger:      ledger,
		fence:       fence,
		schedule:    sched,
		concurrency: concurrency,
		log:         log,
	}
}

// Snapshot returns the last reported position of every subject since the
// admission window opened today. The whole call is refused outside the
// tracking window. Output order follows the roster and carries no meaning.
func (s *LiveLocationService) Snapshot(ctx context.Context, now time.Time) ([]domain.StudentStatus, error) {
	local := s.schedule.Local(now)
	if !s.schedule.InTrackingWindow(local) {
		return nil, domain.ErrOutsideTracking
	}
	since := s.schedule.AdmissionStart(local)

	subjects, err := s.roster.ListSubjects(ctx, domain.RoleSubject)
	if err != nil {
		return nil, fmt.Errorf("live snapshot: list subjects: %w", err)
	}

	out := make([]domain.StudentStatus, len(subjects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, subj := range subjects {
		i, subj := i, subj
		g.Go(func() error {
			latest, err := s.ledger.LatestByUserSince(gctx, subj.ID, since)
			if err != nil {
				return fmt.Errorf("live snapshot: latest for %s: %w", subj.ID, err)
			}
			out[i] = s.classify(subj, latest)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := map[domain.RangeStatus]int{
		domain.RangeWithin:   0,
		domain.RangeOutside:  0,
		domain.RangeNoReport: 0,
	}
	for _, st := range out {
		counts[st.Status]++
	}
	for status, n := range counts {
		metrics.LiveSnapshotSubjects.WithLabelValues(string(status)).Set(float64(n))
	}

	return out, nil
}

func (s *LiveLocationService) classify(subj *domain.Subject, latest *domain.AttendanceEvent) domain.StudentStatus {
	st := domain.StudentStatus{
		SubjectID: subj.ID,
		Name:      subj.Name,
		Email:     subj.Email,
		Status:    domain.RangeNoReport,
	}
	if latest == nil {
		return st
	}

	pos := latest.Location
	at := s.schedule.Local(latest.Timestamp)
	within, km := s.fence.Check(pos.Lat, pos.Lng)

	st.Position = &pos
	st.ReportedAt = &at
	st.DistanceKm = &km
	st.Status = domain.RangeOutside
	if within {
		st.Status = domain.RangeWithin
	}
	return st
}
