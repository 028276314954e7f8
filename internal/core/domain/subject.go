package domain

import (
	"errors"
	"time"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/biometric"
)

const (
	RoleSubject    = "subject"
	RoleSupervisor = "supervisor"
)

var (
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSubjectExists      = errors.New("subject already exists")
	ErrInvalidSubjectID   = errors.New("invalid subject id")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNoBiometric        = errors.New("no face descriptor enrolled")
	ErrForbidden          = errors.New("access forbidden")
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleSubject || role == RoleSupervisor
}

// Subject is a registered person as seen by the roster.
type Subject struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	PasswordHash   string           `json:"-"`
	FaceDescriptor biometric.Vector `json:"-"`
	Role           string           `json:"role"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Enrolled reports whether the subject has a reference face descriptor.
func (s *Subject) Enrolled() bool {
	return len(s.FaceDescriptor) > 0
}
