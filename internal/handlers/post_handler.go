package handlers

import (
	"net/http"

	"threadline/internal/models"
	"threadline/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
	feed  *services.FeedService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, feed *services.FeedService) *PostHandler {
	return &PostHandler{posts: posts, feed: feed}
}

// RegisterPostRoutes registers post-related routes. GetThread is public;
// creation and deletion require a viewer.
func (h *PostHandler) RegisterPostRoutes(public, protected *echo.Group) {
	public.GET("/posts/:id", h.GetThread)
	protected.POST("/posts", h.CreatePost)
	protected.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a post or, when parent_id is given, a reply
func (h *PostHandler) CreatePost(c echo.Context) error {
	viewerID := mustViewerID(c)

	req := new(models.CreatePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.posts.Create(viewerID, *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// DeletePost deletes a post and its dependent likes, reposts and replies.
// Responds with the parent post's ID, when there is one, so the client can
// refresh or redirect to the parent thread.
func (h *PostHandler) DeletePost(c echo.Context) error {
	parentID, err := h.posts.Delete(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"parent_id": parentID}})
}

// GetThread returns a post with its direct replies, annotated for the
// viewer
func (h *PostHandler) GetThread(c echo.Context) error {
	thread, err := h.feed.GetThread(c.Param("id"), viewerIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, thread)
}
