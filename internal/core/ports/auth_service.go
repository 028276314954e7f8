package ports

import (
	"context"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
)

// RegisterInput carries the fields needed to enrol a subject.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           string
	FaceDescriptor []float64
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Subject, error)
	Login(ctx context.Context, email, password string) (string, *domain.Subject, error)
}
