package repositories

import (
	"threadline/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	HasUnseenFollow(recipientID, actorID string) (bool, error)
	HasPostNotification(recipientID, actorID, postID string, notifType models.NotificationType) (bool, error)
	ListByRecipient(recipientID string, unseenOnly bool) ([]models.Notification, error)
	CountUnseen(recipientID string) (int64, error)
	MarkAllSeen(recipientID string) error
	DeleteByPostIDs(postIDs []string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// HasUnseenFollow reports whether an unseen FOLLOW notification already
// exists for the pair. Seen rows don't count: once the recipient has viewed
// the old one, a fresh follow may notify again.
func (r *postgresNotificationRepository) HasUnseenFollow(recipientID, actorID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND actor_id = ? AND type = ? AND seen = ?",
			recipientID, actorID, models.NotificationTypeFollow, false).
		Count(&count).Error
	return count > 0, err
}

// HasPostNotification reports whether any notification of the given type
// already exists for (recipient, actor, post), seen or not. A post only
// ever yields one LIKE and one REPOST notification per actor.
func (r *postgresNotificationRepository) HasPostNotification(recipientID, actorID, postID string, notifType models.NotificationType) (bool, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND actor_id = ? AND post_id = ? AND type = ?",
			recipientID, actorID, postID, notifType).
		Count(&count).Error
	return count > 0, err
}

func (r *postgresNotificationRepository) ListByRecipient(recipientID string, unseenOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	q := r.db.Preload("Actor").Preload("Post").Preload("Reply").
		Where("recipient_id = ?", recipientID)
	if unseenOnly {
		q = q.Where("seen = ?", false)
	}
	err := q.Order("created_at DESC, id DESC").Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) CountUnseen(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND seen = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAllSeen(recipientID string) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND seen = ?", recipientID, false).
		Update("seen", true).Error
}

// DeleteByPostIDs removes notifications referencing any of the given posts
// as subject or reply; part of the post deletion cascade.
func (r *postgresNotificationRepository) DeleteByPostIDs(postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.Where("post_id IN ? OR reply_id IN ?", postIDs, postIDs).Delete(&models.Notification{}).Error
}
