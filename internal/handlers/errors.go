package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/arafhm/minigram/backend/internal/apperrors"
	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler is the single place every failure category converges
// before reaching a caller. Services and repositories raise typed errors;
// only here do they become a status code and a response body.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var body interface{}

	var verr *apperrors.ValidationError
	var dup *apperrors.DuplicateKeyError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body = echo.Map{"success": false, "errors": verr.Fields}
	case errors.As(err, &dup):
		status = http.StatusBadRequest
		body = echo.Map{"success": false, "message": capitalize(dup.Field) + " already exists"}
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		body = echo.Map{"success": false, "message": "Resource not found"}
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
		body = echo.Map{"success": false, "message": "You are not authorized to perform this action"}
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenExpired):
		status = http.StatusUnauthorized
		body = echo.Map{"success": false, "message": "Invalid or expired token"}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		body = echo.Map{"success": false, "message": fmt.Sprintf("%v", httpErr.Message)}
	default:
		msg := err.Error()
		if msg == "" {
			msg = "Server Error"
		}
		body = echo.Map{"success": false, "message": msg}
	}

	if err := c.JSON(status, body); err != nil {
		c.Logger().Error(err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
