package services

import (
	"log/slog"

	"threadline/internal/apperror"
	"threadline/internal/models"
	"threadline/internal/repositories"

	"gorm.io/gorm"
)

// SocialGraphService maintains follow edges and the denormalized follower
// counter. Edge mutation, counter update and notification commit in one
// transaction or not at all.
type SocialGraphService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSocialGraphService creates a new SocialGraphService
func NewSocialGraphService(db *gorm.DB, logger *slog.Logger) *SocialGraphService {
	return &SocialGraphService{db: db, logger: logger}
}

// Follow makes followerID follow targetID. Following yourself fails
// validation; following someone you already follow is a no-op success with
// no counter change and no notification.
func (s *SocialGraphService) Follow(targetID, followerID string) error {
	if targetID == followerID {
		return apperror.ValidationFailed("target_id", "cannot follow yourself")
	}

	exists, err := repositories.NewPostgresUserRepository(s.db).UserExists(targetID)
	if err != nil {
		return wrapStore(s.logger, "follow", err)
	}
	if !exists {
		return apperror.NotFound("user", targetID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		inserted, err := repositories.NewPostgresFollowRepository(tx).CreateFollowIfAbsent(&models.Follow{
			TargetID:   targetID,
			FollowerID: followerID,
		})
		if err != nil {
			return err
		}
		if !inserted {
			return nil // already following
		}
		if err := repositories.NewPostgresUserRepository(tx).IncrementFollowerCount(targetID); err != nil {
			return err
		}
		return notifyFollow(tx, targetID, followerID)
	})
	return wrapStore(s.logger, "follow", err)
}

// Unfollow removes the edge and decrements the counter; a no-op success if
// the edge does not exist. An already-raised FOLLOW notification is not
// retracted: notifications are a log of events, not live graph state.
func (s *SocialGraphService) Unfollow(targetID, followerID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		deleted, err := repositories.NewPostgresFollowRepository(tx).DeleteFollow(targetID, followerID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return repositories.NewPostgresUserRepository(tx).DecrementFollowerCount(targetID)
	})
	return wrapStore(s.logger, "unfollow", err)
}

// IsFollowing reports whether followerID currently follows targetID.
func (s *SocialGraphService) IsFollowing(followerID, targetID string) (bool, error) {
	following, err := repositories.NewPostgresFollowRepository(s.db).IsFollowing(followerID, targetID)
	if err != nil {
		return false, wrapStore(s.logger, "isFollowing", err)
	}
	return following, nil
}
