package models

import "time"

type NotificationType string

const (
	NotificationTypeFollow NotificationType = "FOLLOW"
	NotificationTypeLike   NotificationType = "LIKE"
	NotificationTypeReply  NotificationType = "REPLY"
	NotificationTypeRepost NotificationType = "REPOST"
)

// Notification is a log entry raised by a social action. The only state
// transition is unseen -> seen; rows are never deleted except by the
// cascade of their user or post.
//
// Dedup rules, enforced at insert time inside the triggering transaction:
//   - FOLLOW: at most one unseen row per (recipient, actor)
//   - LIKE/REPOST: at most one row per (recipient, actor, post), seen or not
//   - REPLY: never deduped, ReplyID distinguishes rows
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID string           `json:"recipient_id" gorm:"index;not null;size:20"`
	ActorID     string           `json:"actor_id" gorm:"index;not null;size:20"`
	Actor       User             `json:"actor" gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE"`
	Type        NotificationType `json:"type" gorm:"size:10;not null;index"`
	PostID      *string          `json:"post_id,omitempty" gorm:"index;size:20"`
	Post        *Post            `json:"post,omitempty" gorm:"foreignKey:PostID"`
	ReplyID     *string          `json:"reply_id,omitempty" gorm:"size:20"`
	Reply       *Post            `json:"reply,omitempty" gorm:"foreignKey:ReplyID"`
	Seen        bool             `json:"seen" gorm:"not null;default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}
