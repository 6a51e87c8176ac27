package handlers

import (
	"errors"
	"net/http"

	"threadline/internal/apperror"
	"threadline/internal/middleware"

	"github.com/labstack/echo/v4"
)

// viewerIDFromContext returns the authenticated viewer's ID, or nil for an
// anonymous request.
func viewerIDFromContext(c echo.Context) *string {
	if id, ok := c.Get(middleware.ViewerIDKey).(string); ok {
		return &id
	}
	return nil
}

// mustViewerID returns the viewer's ID on routes guarded by RequireViewer.
func mustViewerID(c echo.Context) string {
	return c.Get(middleware.ViewerIDKey).(string)
}

// httpError translates a domain error to the HTTP status it deserves.
// Store failures stay generic: the detail is already logged by the service.
func httpError(err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		if errors.As(err, &appErr) && appErr.Field != "" {
			return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"message": appErr.Message, "field": appErr.Field})
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperror.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperror.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}
}
