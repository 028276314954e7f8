package handler

import "github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"

type registerRequest struct {
	Name     string `json:"name"               validate:"required"`
	Email    string `json:"email"              validate:"required,email"`
	Password string `json:"password"           validate:"required,min=6"`
	Role     string `json:"role,omitempty"     validate:"omitempty,oneof=subject supervisor"`
	// Required for subjects; supervisors may enrol without one.
	FaceDescriptor []float64 `json:"face_descriptor,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Success bool            `json:"success"`
	User    subjectResponse `json:"user"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  subjectResponse `json:"user"`
}

func toSubjectResponse(s *domain.Subject) subjectResponse {
	return subjectResponse{
		ID:       s.ID,
		Name:     s.Name,
		Email:    s.Email,
		Role:     s.Role,
		Enrolled: s.Enrolled(),
	}
}
