package ports

import (
	"context"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
)

// SubjectRepository persists registered subjects for the credential flow.
type SubjectRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Subject, error)
	Create(ctx context.Context, subject *domain.Subject) (*domain.Subject, error)
}

// RosterProvider is the read side of the subject directory used by the
// attendance engine.
type RosterProvider interface {
	// FindSubject returns domain.ErrSubjectNotFound when no subject has id, and
	// domain.ErrInvalidSubjectID when id is malformed.
	FindSubject(ctx context.Context, id string) (*domain.Subject, error)
	// ListSubjects returns every subject with the given role, or all subjects
	// when role is empty.
	ListSubjects(ctx context.Context, role string) ([]*domain.Subject, error)
}
