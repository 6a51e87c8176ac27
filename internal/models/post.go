package models

import "time"

// Post is a top-level post or, when ParentID is set, a reply. Replies are
// posts themselves, so a reply tree is a self-reference on parent_id.
// All four counters are denormalized; each is owned by exactly one
// transactional operation and never written outside it.
type Post struct {
	ID          string    `json:"id" gorm:"primaryKey;size:20"`
	AuthorID    string    `json:"author_id" gorm:"index;not null;size:20"`
	Author      User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Text        *string   `json:"text,omitempty" gorm:"size:500"`
	Image       *string   `json:"image,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty" gorm:"index;size:20"`
	LikeCount   int       `json:"like_count" gorm:"not null;default:0"`
	ReplyCount  int       `json:"reply_count" gorm:"not null;default:0"`
	RepostCount int       `json:"repost_count" gorm:"not null;default:0"`
	ShareCount  int       `json:"share_count" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// CreatePostRequest defines the request body for creating a post or reply.
// At least one of text/image must be present; that cross-field rule is
// enforced by the post service, not by tags.
type CreatePostRequest struct {
	Text     *string `json:"text,omitempty" validate:"omitempty,max=500"`
	Image    *string `json:"image,omitempty" validate:"omitempty,url"`
	ParentID *string `json:"parent_id,omitempty"`
}
