package services

import (
	"errors"
	"log/slog"

	"threadline/internal/apperror"
	"threadline/internal/models"
	"threadline/internal/repositories"

	"github.com/rs/xid"
	"gorm.io/gorm"
)

// ProfileKind discriminates a profile view. The decision is made once at
// the query boundary, not inferred from which fields happen to be present.
type ProfileKind string

const (
	ProfileKindSelf   ProfileKind = "self"
	ProfileKindPublic ProfileKind = "public"
)

// Profile is a viewer-relative user view. Email is only populated on the
// self view.
type Profile struct {
	Kind          ProfileKind `json:"kind"`
	ID            string      `json:"id"`
	Username      string      `json:"username"`
	Name          string      `json:"name"`
	Bio           *string     `json:"bio,omitempty"`
	Avatar        *string     `json:"avatar,omitempty"`
	FollowerCount int         `json:"follower_count"`
	Email         *string     `json:"email,omitempty"`
	IsFollowed    bool        `json:"is_followed"`
}

// UserService manages the user directory.
type UserService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, logger *slog.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

// Create registers a user profile. Email and username must be unique;
// username uniqueness is case-insensitive.
func (s *UserService) Create(req models.CreateUserRequest) (*models.User, error) {
	users := repositories.NewPostgresUserRepository(s.db)

	taken, err := users.UsernameTaken(req.Username)
	if err != nil {
		return nil, wrapStore(s.logger, "createUser", err)
	}
	if taken {
		return nil, apperror.ValidationFailed("username", "username already taken")
	}
	taken, err = users.EmailTaken(req.Email)
	if err != nil {
		return nil, wrapStore(s.logger, "createUser", err)
	}
	if taken {
		return nil, apperror.ValidationFailed("email", "email already registered")
	}

	user := &models.User{
		ID:       xid.New().String(),
		Email:    req.Email,
		Username: req.Username,
		Name:     req.Name,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	}
	if err := users.CreateUser(user); err != nil {
		return nil, wrapStore(s.logger, "createUser", err)
	}
	return user, nil
}

// GetProfile resolves a username to a profile view relative to the viewer:
// the self view carries the email, the public view carries whether the
// viewer follows the user.
func (s *UserService) GetProfile(username string, viewerID *string) (*Profile, error) {
	user, err := repositories.NewPostgresUserRepository(s.db).GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, wrapStore(s.logger, "getProfile", err)
	}

	profile := &Profile{
		Kind:          ProfileKindPublic,
		ID:            user.ID,
		Username:      user.Username,
		Name:          user.Name,
		Bio:           user.Bio,
		Avatar:        user.Avatar,
		FollowerCount: user.FollowerCount,
	}

	if viewerID == nil {
		return profile, nil
	}
	if *viewerID == user.ID {
		profile.Kind = ProfileKindSelf
		profile.Email = &user.Email
		return profile, nil
	}

	followed, err := repositories.NewPostgresFollowRepository(s.db).IsFollowing(*viewerID, user.ID)
	if err != nil {
		return nil, wrapStore(s.logger, "getProfile", err)
	}
	profile.IsFollowed = followed
	return profile, nil
}
