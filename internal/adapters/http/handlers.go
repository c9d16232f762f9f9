package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aria/reminders/internal/domain/entities"
)

// ContextUserKey is the echo context key the auth middleware stores the token subject under.
const ContextUserKey = "user"

func getUserIDFromContext(c echo.Context) string {
	user, _ := c.Get(ContextUserKey).(string)
	return user
}

// StatusForError maps a domain error code to an HTTP status.
func StatusForError(err error) int {
	var dErr *entities.Error
	if !errors.As(err, &dErr) {
		return http.StatusInternalServerError
	}

	switch dErr.Code {
	case entities.ErrCodeInvalid:
		return http.StatusBadRequest
	case entities.ErrCodeNotFound:
		return http.StatusNotFound
	case entities.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case entities.ErrCodeStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// toHTTPError converts a service error into an echo error carrying the mapped status.
func toHTTPError(err error) *echo.HTTPError {
	status := StatusForError(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	return echo.NewHTTPError(status, msg).SetInternal(err)
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return v, nil
}
