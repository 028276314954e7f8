package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
)

type SubjectHandler struct {
	roster ports.RosterProvider
}

func NewSubjectHandler(roster ports.RosterProvider) *SubjectHandler {
	return &SubjectHandler{roster: roster}
}

type subjectResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Enrolled bool   `json:"enrolled"`
}

// List handles GET /v1/subjects.
//
// @Summary      List registered subjects
// @Tags         subjects
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "Filter by role (subject, supervisor)"
// @Success      200   {array}   subjectResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/subjects [get]
func (h *SubjectHandler) List(c echo.Context) error {
	role := c.QueryParam("role")
	if role != "" && !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}

	subjects, err := h.roster.ListSubjects(c.Request().Context(), role)
	if err != nil {
		return err
	}

	out := make([]subjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, toSubjectResponse(s))
	}
	return c.JSON(http.StatusOK, out)
}
