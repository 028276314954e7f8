// Package schedule decides whether an instant falls inside the daily
// admission and live-tracking windows.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWindow = errors.New("invalid hour window")

// HourRange is a daily window [Start:00, End:00) in whole hours. With
// Start=19 and End=20 it admits 19:00:00 through 19:59:59.
type HourRange struct {
	Start int
	End   int
}

// Contains reports whether the hour component of t lies in the range.
func (r HourRange) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= r.Start && h < r.End
}

func (r HourRange) validate() error {
	if r.Start < 0 || r.End > 24 || r.Start >= r.End {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidWindow, r.Start, r.End)
	}
	return nil
}

func (r HourRange) String() string {
	return fmt.Sprintf("%02d:00-%02d:59", r.Start, r.End-1)
}

// Policy carries both windows and the reference timezone they are
// evaluated in. It is read-only once built.
type Policy struct {
	Admission HourRange
	Tracking  HourRange
	Location  *time.Location
}

// DefaultPolicy admits between 19:00 and 19:59 and allows live tracking
// from 19:00 to 22:59, local time.
func DefaultPolicy() Policy {
	return Policy{
		Admission: HourRange{Start: 19, End: 20},
		Tracking:  HourRange{Start: 19, End: 23},
		Location:  time.Local,
	}
}

// Validate checks both windows.
func (p Policy) Validate() error {
	if err := p.Admission.validate(); err != nil {
		return fmt.Errorf("admission: %w", err)
	}
	if err := p.Tracking.validate(); err != nil {
		return fmt.Errorf("tracking: %w", err)
	}
	return nil
}

// Local converts t into the policy timezone.
func (p Policy) Local(t time.Time) time.Time {
	if p.Location == nil {
		return t.Local()
	}
	return t.In(p.Location)
}

// InAdmissionWindow reports whether now falls in the admission window.
func (p Policy) InAdmissionWindow(now time.Time) bool {
	return p.Admission.Contains(p.Local(now))
}

// InTrackingWindow reports whether now falls in the live-tracking window.
func (p Policy) InTrackingWindow(now time.Time) bool {
	return p.Tracking.Contains(p.Local(now))
}

// AdmissionStart returns the start of the admission window on the local
// calendar day containing now.
func (p Policy) AdmissionStart(now time.Time) time.Time {
	l := p.Local(now)
	return time.Date(l.Year(), l.Month(), l.Day(), p.Admission.Start, 0, 0, 0, l.Location())
}
