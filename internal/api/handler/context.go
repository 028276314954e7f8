package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// fails fast before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - subject_id must be non-empty; a token without it cannot mark or be
//     attributed to anyone.
func ctxClaims(c echo.Context) (subjectID, role string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	subjectID, _ = c.Get("subject_id").(string)
	if subjectID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing subject identity")
	}

	return subjectID, role, nil
}
