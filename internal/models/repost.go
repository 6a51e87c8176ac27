package models

import "time"

// Repost marks that a user reposted a post. Same shape and rules as Like.
// CreatedAt doubles as the repost timestamp shown on profile repost feeds.
type Repost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_repost;not null;size:20"`
	UserID    string    `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_repost;not null;size:20"`
	CreatedAt time.Time `json:"created_at"`
}
