package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Roster stub
// ---------------------------------------------------------------------------

type stubRoster struct {
	mu       sync.Mutex
	byID     map[string]*domain.Subject
	order    []string
	findErr  error
	listErr  error
	findHits int
}

func newStubRoster(subjects ...*domain.Subject) *stubRoster {
	r := &stubRoster{byID: make(map[string]*domain.Subject)}
	for _, s := range subjects {
		r.byID[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

func (r *stubRoster) FindSubject(_ context.Context, id string) (*domain.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findHits++

	if r.findErr != nil {
		return nil, r.findErr
	}
	if strings.ContainsAny(id, "!? ") {
		return nil, domain.ErrInvalidSubjectID
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSubjectNotFound
	}
	return cloneSubject(s), nil
}

func (r *stubRoster) ListSubjects(_ context.Context, role string) ([]*domain.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Subject
	for _, id := range r.order {
		s := r.byID[id]
		if role != "" && s.Role != role {
			continue
		}
		out = append(out, cloneSubject(s))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Ledger stub: Append is atomic per (subject, day), like the unique index of
// the real store.
// ---------------------------------------------------------------------------

type memLedger struct {
	mu     sync.Mutex
	events []*domain.AttendanceEvent

	hasErr    error
	appendErr error
	findErr   error
	latestErr error
	deleteErr error

	// checkDelay widens the gap between the duplicate check and the append.
	checkDelay time.Duration

	hasCalls    int
	appendCalls int
}

func (l *memLedger) seed(events ...*domain.AttendanceEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
}

func (l *memLedger) HasEventToday(_ context.Context, subjectID string, ref time.Time) (bool, error) {
	l.mu.Lock()
	l.hasCalls++
	err := l.hasErr
	found := false
	start, end := domain.DayBounds(ref)
	for _, e := range l.events {
		if e.SubjectID == subjectID && !e.Timestamp.Before(start) && !e.Timestamp.After(end) {
			found = true
			break
		}
	}
	l.mu.Unlock()

	if l.checkDelay > 0 {
		time.Sleep(l.checkDelay)
	}
	return found, err
}

func (l *memLedger) Append(_ context.Context, e *domain.AttendanceEvent) (*domain.AttendanceEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appendCalls++

	if l.appendErr != nil {
		return nil, l.appendErr
	}
	for _, existing := range l.events {
		if existing.SubjectID == e.SubjectID && existing.Day == e.Day {
			return nil, domain.ErrDuplicateAttendance
		}
	}
	clone := *e
	l.events = append(l.events, &clone)
	out := clone
	return &out, nil
}

func (l *memLedger) FindByDateRange(_ context.Context, start, end time.Time, status domain.AttendanceStatus) ([]*domain.AttendanceEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.findErr != nil {
		return nil, l.findErr
	}
	var out []*domain.AttendanceEvent
	for _, e := range l.events {
		if e.Timestamp.Before(start) || e.Timestamp.After(end) {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (l *memLedger) LatestByUserSince(_ context.Context, subjectID string, since time.Time) (*domain.AttendanceEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.latestErr != nil {
		return nil, l.latestErr
	}
	var latest *domain.AttendanceEvent
	for _, e := range l.events {
		if e.SubjectID != subjectID || e.Timestamp.Before(since) {
			continue
		}
		if latest == nil || e.Timestamp.After(latest.Timestamp) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (l *memLedger) DeleteForSubjectOnDate(_ context.Context, subjectID string, date time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.deleteErr != nil {
		return 0, l.deleteErr
	}
	start, end := domain.DayBounds(date)
	kept := l.events[:0]
	var n int64
	for _, e := range l.events {
		if e.SubjectID == subjectID && !e.Timestamp.Before(start) && !e.Timestamp.After(end) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	l.events = kept
	return n, nil
}

func (l *memLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// ---------------------------------------------------------------------------
// Admission guard stub: one mutex per key.
// ---------------------------------------------------------------------------

type stubGuard struct {
	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	err      error
	acquired int
	released int
}

func newStubGuard() *stubGuard {
	return &stubGuard{locks: make(map[string]*sync.Mutex)}
}

func (g *stubGuard) Acquire(_ context.Context, subjectID, day string) (func(), error) {
	g.mu.Lock()
	if g.err != nil {
		g.mu.Unlock()
		return nil, g.err
	}
	key := subjectID + ":" + day
	m, ok := g.locks[key]
	if !ok {
		m = &sync.Mutex{}
		g.locks[key] = m
	}
	g.acquired++
	g.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		g.mu.Lock()
		g.released++
		g.mu.Unlock()
	}, nil
}

// ---------------------------------------------------------------------------
// Notice queue stub
// ---------------------------------------------------------------------------

type stubQueue struct {
	notices []ports.ResetNotice
}

func (q *stubQueue) Enqueue(n ports.ResetNotice) {
	q.notices = append(q.notices, n)
}
