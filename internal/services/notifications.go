package services

import (
	"log/slog"

	"threadline/internal/models"
	"threadline/internal/repositories"

	"gorm.io/gorm"
)

// NotificationService reads and acknowledges notifications. Insertion never
// happens here: notifications are raised by the notify* helpers below,
// inside the transaction of the social action that caused them, so a failed
// notification write rolls the whole action back.
type NotificationService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(db *gorm.DB, logger *slog.Logger) *NotificationService {
	return &NotificationService{db: db, logger: logger}
}

// List returns the recipient's notifications newest-first, with the actor's
// profile and any related post/reply snapshot attached. unseenOnly filters
// to notifications not yet acknowledged.
func (s *NotificationService) List(recipientID string, unseenOnly bool) ([]models.Notification, error) {
	notifications, err := repositories.NewPostgresNotificationRepository(s.db).ListByRecipient(recipientID, unseenOnly)
	if err != nil {
		return nil, wrapStore(s.logger, "notifications.list", err)
	}
	return notifications, nil
}

// CountUnseen returns the badge count of unacknowledged notifications.
func (s *NotificationService) CountUnseen(recipientID string) (int64, error) {
	count, err := repositories.NewPostgresNotificationRepository(s.db).CountUnseen(recipientID)
	if err != nil {
		return 0, wrapStore(s.logger, "notifications.countUnseen", err)
	}
	return count, nil
}

// MarkAllSeen acknowledges every unseen notification; calling it again is a
// no-op.
func (s *NotificationService) MarkAllSeen(recipientID string) error {
	if err := repositories.NewPostgresNotificationRepository(s.db).MarkAllSeen(recipientID); err != nil {
		return wrapStore(s.logger, "notifications.markAllSeen", err)
	}
	return nil
}

// notifyFollow raises a FOLLOW notification unless the actor is the
// recipient or an unseen one for the pair already exists. Re-following
// after the old notification was seen notifies again; while it sits unseen
// it does not.
func notifyFollow(tx *gorm.DB, recipientID, actorID string) error {
	if recipientID == actorID {
		return nil
	}
	repo := repositories.NewPostgresNotificationRepository(tx)
	exists, err := repo.HasUnseenFollow(recipientID, actorID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return repo.CreateNotification(&models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        models.NotificationTypeFollow,
	})
}

// notifyPostEvent raises a LIKE or REPOST notification unless the actor is
// the recipient or one for (recipient, actor, post, type) ever existed.
// Toggling the like off and on again does not re-notify.
func notifyPostEvent(tx *gorm.DB, recipientID, actorID, postID string, notifType models.NotificationType) error {
	if recipientID == actorID {
		return nil
	}
	repo := repositories.NewPostgresNotificationRepository(tx)
	exists, err := repo.HasPostNotification(recipientID, actorID, postID, notifType)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return repo.CreateNotification(&models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        notifType,
		PostID:      &postID,
	})
}

// notifyReply raises a REPLY notification. No dedup: every distinct reply
// is its own event, distinguished by replyID.
func notifyReply(tx *gorm.DB, recipientID, actorID, postID, replyID string) error {
	if recipientID == actorID {
		return nil
	}
	return repositories.NewPostgresNotificationRepository(tx).CreateNotification(&models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        models.NotificationTypeReply,
		PostID:      &postID,
		ReplyID:     &replyID,
	})
}
