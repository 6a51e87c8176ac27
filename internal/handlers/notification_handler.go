package handlers

import (
	"net/http"

	"threadline/internal/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes; all require a
// viewer since notifications are per-recipient.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.GET("/notifications/unseen-count", h.GetUnseenCount)
	g.POST("/notifications/seen", h.MarkAllSeen)
}

// ListNotifications returns the viewer's notifications newest-first;
// ?unseen=true filters to unacknowledged ones
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	viewerID := mustViewerID(c)
	unseenOnly := c.QueryParam("unseen") == "true"

	notifications, err := h.notifications.List(viewerID, unseenOnly)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

// GetUnseenCount returns the badge count of unseen notifications
func (h *NotificationHandler) GetUnseenCount(c echo.Context) error {
	count, err := h.notifications.CountUnseen(mustViewerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAllSeen acknowledges all of the viewer's notifications
func (h *NotificationHandler) MarkAllSeen(c echo.Context) error {
	if err := h.notifications.MarkAllSeen(mustViewerID(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
