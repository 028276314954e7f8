package domain

import "fmt"

// RejectReason names the policy or validation rule that denied admission.
type RejectReason string

const (
	ReasonSubjectNotFound     RejectReason = "subject_not_found"
	ReasonNoBiometricEnrolled RejectReason = "no_biometric_enrolled"
	ReasonDimensionMismatch   RejectReason = "dimension_mismatch"
	ReasonBiometricMismatch   RejectReason = "biometric_mismatch"
	ReasonOutsideWindow       RejectReason = "outside_temporal_window"
	ReasonOutsideGeofence     RejectReason = "outside_geofence"
	ReasonDuplicateForToday   RejectReason = "duplicate_for_today"
)

// Decision is the outcome of one verification attempt. Exactly one of Event
// (admitted) or Reason (rejected) is meaningful.
type Decision struct {
	Admitted   bool
	Event      *AttendanceEvent
	Reason     RejectReason
	Message    string
	DistanceKm *float64
}

// Admit wraps a committed event.
func Admit(e *AttendanceEvent) Decision {
	return Decision{Admitted: true, Event: e}
}

// Reject builds a rejection with a human readable message.
func Reject(reason RejectReason, msg string) Decision {
	return Decision{Reason: reason, Message: msg}
}

// RejectOutsideGeofence carries the measured distance back to the caller.
func RejectOutsideGeofence(distanceKm float64) Decision {
	d := distanceKm
	return Decision{
		Reason:     ReasonOutsideGeofence,
		Message:    fmt.Sprintf("attendance denied, you are %.2fkm from the reference location", distanceKm),
		DistanceKm: &d,
	}
}
