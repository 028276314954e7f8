package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/biometric"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo      ports.SubjectRepository
	matcher   biometric.Matcher
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.SubjectRepository, matcher biometric.Matcher, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, matcher: matcher, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register enrols a subject. Subjects must provide a face descriptor of the
// declared dimension; supervisors may omit it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Subject, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := in.Role
	if role == "" {
		role = domain.RoleSubject
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	descriptor := biometric.Vector(in.FaceDescriptor)
	if len(descriptor) == 0 && role == domain.RoleSubject {
		return nil, domain.ErrNoBiometric
	}
	if len(descriptor) > 0 {
		if err := s.matcher.ValidateDimension(descriptor); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	subject := &domain.Subject{
		Name:           in.Name,
		Email:          email,
		PasswordHash:   string(hash),
		FaceDescriptor: append(biometric.Vector(nil), descriptor...),
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, subject)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Subject, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	subject, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(subject.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(subject)
	if err != nil {
		return "", nil, err
	}

	return token, subject, nil
}

func (s *AuthService) generateToken(subject *domain.Subject) (string, error) {
	claims := jwt.MapClaims{
		"subject_id": subject.ID,
		"email":      subject.Email,
		"role":       subject.Role,
		"exp":        time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
