package handlers

import (
	"net/http"

	"threadline/internal/models"
	"threadline/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterUserRoutes registers user directory routes
func (h *UserHandler) RegisterUserRoutes(public *echo.Group) {
	public.POST("/users", h.CreateUser)
	public.GET("/users/:username", h.GetProfile)
}

// CreateUser registers a new user profile
func (h *UserHandler) CreateUser(c echo.Context) error {
	req := new(models.CreateUserRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Create(*req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// GetProfile returns a profile view decided at the query boundary: the
// self view (with email) for the owner, the public view for everyone else.
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.users.GetProfile(c.Param("username"), viewerIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}
