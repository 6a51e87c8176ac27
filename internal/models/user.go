package models

import "time"

// User is an account in the directory. FollowerCount is denormalized and
// must only be mutated together with the follow row inside one transaction.
type User struct {
	ID            string    `json:"id" gorm:"primaryKey;size:20"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	Username      string    `json:"username" gorm:"uniqueIndex;not null;size:30"`
	Name          string    `json:"name"`
	Bio           *string   `json:"bio,omitempty" gorm:"size:150"`
	Avatar        *string   `json:"avatar,omitempty"`
	FollowerCount int       `json:"follower_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateUserRequest defines the request body for registering a user profile
type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required,min=2,max=30,alphanum"`
	Name     string  `json:"name" validate:"required,min=1,max=50"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=150"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// UserCompact is the public author card embedded in feeds and notifications
type UserCompact struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar,omitempty"`
}

// ToCompact strips a user down to its public card
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
	}
}
