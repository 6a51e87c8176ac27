package handlers

import (
	"net/http"

	"threadline/internal/services"

	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	socialGraph *services.SocialGraphService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(socialGraph *services.SocialGraphService) *FollowHandler {
	return &FollowHandler{socialGraph: socialGraph}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
}

// FollowUser follows a user. Following an already-followed user succeeds
// without effect.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	viewerID := mustViewerID(c)
	targetID := c.Param("id")

	if err := h.socialGraph.Follow(targetID, viewerID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user; a no-op success when not following.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	viewerID := mustViewerID(c)
	targetID := c.Param("id")

	if err := h.socialGraph.Unfollow(targetID, viewerID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}
