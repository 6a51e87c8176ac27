package handlers

import (
	"net/http"
	"strconv"

	"threadline/internal/services"

	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed and search HTTP requests
type FeedHandler struct {
	feed *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes. Everything here has an
// anonymous form except the following feed.
func (h *FeedHandler) RegisterFeedRoutes(public, protected *echo.Group) {
	public.GET("/feed", h.GetFeed)
	protected.GET("/feed/following", h.GetFollowingFeed)
	public.GET("/users/:username/posts", h.GetAuthorFeed)
	public.GET("/users/:username/replies", h.GetAuthorReplies)
	public.GET("/users/:username/reposts", h.GetAuthorReposts)
	public.GET("/search/posts", h.SearchPosts)
	public.GET("/search/users", h.SearchUsers)
}

func offsetParam(c echo.Context) int {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	return offset
}

// GetFeed returns a page of the global feed
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, err := h.feed.ListFeed(viewerIDFromContext(c), nil, offsetParam(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetFollowingFeed returns a page of posts by followed authors
func (h *FeedHandler) GetFollowingFeed(c echo.Context) error {
	viewerID := mustViewerID(c)
	page, err := h.feed.ListFollowingFeed(viewerID, offsetParam(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetAuthorFeed returns a page of one author's top-level posts
func (h *FeedHandler) GetAuthorFeed(c echo.Context) error {
	username := c.Param("username")
	page, err := h.feed.ListFeed(viewerIDFromContext(c), &username, offsetParam(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetAuthorReplies returns all replies the author has written
func (h *FeedHandler) GetAuthorReplies(c echo.Context) error {
	posts, err := h.feed.ListReplies(c.Param("username"), viewerIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GetAuthorReposts returns the posts the author has reposted
func (h *FeedHandler) GetAuthorReposts(c echo.Context) error {
	posts, err := h.feed.ListReposts(c.Param("username"), viewerIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// SearchPosts matches a case-insensitive substring of post text
func (h *FeedHandler) SearchPosts(c echo.Context) error {
	term := c.QueryParam("q")
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search term")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	posts, err := h.feed.SearchPosts(term, viewerIDFromContext(c), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// SearchUsers searches users ranked by prefix and substring priority
func (h *FeedHandler) SearchUsers(c echo.Context) error {
	term := c.QueryParam("q")
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search term")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	users, err := h.feed.SearchUsers(term, viewerIDFromContext(c), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
