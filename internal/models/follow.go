package models

import "time"

// Follow is an edge in the social graph: FollowerID follows TargetID.
// The composite unique index makes duplicate follows a constraint matter
// rather than a check-then-act race. target_id != follower_id is enforced
// by the social graph service.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TargetID   string    `json:"target_id" gorm:"index;uniqueIndex:idx_target_follower;not null;size:20"`
	FollowerID string    `json:"follower_id" gorm:"index;uniqueIndex:idx_target_follower;not null;size:20"`
	CreatedAt  time.Time `json:"created_at"`
}
