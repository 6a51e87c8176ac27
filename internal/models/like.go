package models

import "time"

// Like marks that a user liked a post. Existence is boolean per
// (user, post); the composite unique index backs the idempotent insert.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like;not null;size:20"`
	UserID    string    `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like;not null;size:20"`
	CreatedAt time.Time `json:"created_at"`
}
