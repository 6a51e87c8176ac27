package handlers

import (
	"net/http"

	"threadline/internal/services"

	"github.com/labstack/echo/v4"
)

// InteractionHandler handles like, repost and share HTTP requests
type InteractionHandler struct {
	interactions *services.InteractionService
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(interactions *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

// RegisterInteractionRoutes registers like/repost/share routes
func (h *InteractionHandler) RegisterInteractionRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
	g.POST("/posts/:post_id/reposts", h.RepostPost)
	g.DELETE("/posts/:post_id/reposts", h.UnrepostPost)
	g.POST("/posts/:post_id/shares", h.SharePost)
}

// LikePost handles liking a post. Repeats are no-op successes.
func (h *InteractionHandler) LikePost(c echo.Context) error {
	if err := h.interactions.Like(c.Param("post_id"), mustViewerID(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": true}})
}

// UnlikePost handles unliking a post
func (h *InteractionHandler) UnlikePost(c echo.Context) error {
	if err := h.interactions.Unlike(c.Param("post_id"), mustViewerID(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": false}})
}

// RepostPost handles reposting a post
func (h *InteractionHandler) RepostPost(c echo.Context) error {
	if err := h.interactions.Repost(c.Param("post_id"), mustViewerID(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reposted": true}})
}

// UnrepostPost handles removing a repost
func (h *InteractionHandler) UnrepostPost(c echo.Context) error {
	if err := h.interactions.Unrepost(c.Param("post_id"), mustViewerID(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reposted": false}})
}

// SharePost counts a share of the post. Every call increments.
func (h *InteractionHandler) SharePost(c echo.Context) error {
	if err := h.interactions.IncrementShareCount(c.Param("post_id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
