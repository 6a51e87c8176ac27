package services

import (
	"errors"
	"log/slog"

	"threadline/internal/apperror"
	"threadline/internal/models"
	"threadline/internal/repositories"

	"gorm.io/gorm"
)

// InteractionService handles likes, reposts and share counting. Row
// mutation, counter update and notification are one transaction each.
type InteractionService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(db *gorm.DB, logger *slog.Logger) *InteractionService {
	return &InteractionService{db: db, logger: logger}
}

func (s *InteractionService) getPost(postID string) (*models.Post, error) {
	post, err := repositories.NewPostgresPostRepository(s.db).GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", postID)
		}
		return nil, err
	}
	return post, nil
}

// ensurePostExists is the cheaper check for the undo paths, which need no
// post fields.
func (s *InteractionService) ensurePostExists(postID string) error {
	exists, err := repositories.NewPostgresPostRepository(s.db).PostExists(postID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("post", postID)
	}
	return nil
}

// Like records the user's like of the post. Liking an already-liked post is
// a no-op success. The post author is notified unless they liked their own
// post, and at most once per (author, actor, post) ever.
func (s *InteractionService) Like(postID, userID string) error {
	post, err := s.getPost(postID)
	if err != nil {
		return wrapStore(s.logger, "like", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		inserted, err := repositories.NewPostgresLikeRepository(tx).CreateLikeIfAbsent(&models.Like{
			PostID: postID,
			UserID: userID,
		})
		if err != nil {
			return err
		}
		if !inserted {
			return nil // already liked
		}
		if err := repositories.NewPostgresPostRepository(tx).IncrementLikeCount(postID); err != nil {
			return err
		}
		return notifyPostEvent(tx, post.AuthorID, userID, postID, models.NotificationTypeLike)
	})
	return wrapStore(s.logger, "like", err)
}

// Unlike removes the like; a no-op success if there is none. A prior LIKE
// notification stays where it is.
func (s *InteractionService) Unlike(postID, userID string) error {
	if err := s.ensurePostExists(postID); err != nil {
		return wrapStore(s.logger, "unlike", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		deleted, err := repositories.NewPostgresLikeRepository(tx).DeleteLike(postID, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return repositories.NewPostgresPostRepository(tx).DecrementLikeCount(postID)
	})
	return wrapStore(s.logger, "unlike", err)
}

// Repost records the user's repost of the post; same idempotence and
// notification rules as Like.
func (s *InteractionService) Repost(postID, userID string) error {
	post, err := s.getPost(postID)
	if err != nil {
		return wrapStore(s.logger, "repost", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		inserted, err := repositories.NewPostgresRepostRepository(tx).CreateRepostIfAbsent(&models.Repost{
			PostID: postID,
			UserID: userID,
		})
		if err != nil {
			return err
		}
		if !inserted {
			return nil // already reposted
		}
		if err := repositories.NewPostgresPostRepository(tx).IncrementRepostCount(postID); err != nil {
			return err
		}
		return notifyPostEvent(tx, post.AuthorID, userID, postID, models.NotificationTypeRepost)
	})
	return wrapStore(s.logger, "repost", err)
}

// Unrepost removes the repost; a no-op success if there is none.
func (s *InteractionService) Unrepost(postID, userID string) error {
	if err := s.ensurePostExists(postID); err != nil {
		return wrapStore(s.logger, "unrepost", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		deleted, err := repositories.NewPostgresRepostRepository(tx).DeleteRepost(postID, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return repositories.NewPostgresPostRepository(tx).DecrementRepostCount(postID)
	})
	return wrapStore(s.logger, "unrepost", err)
}

// IncrementShareCount bumps the post's share counter. Not idempotent:
// every share is counted, and no notification is raised.
func (s *InteractionService) IncrementShareCount(postID string) error {
	found, err := repositories.NewPostgresPostRepository(s.db).IncrementShareCount(postID)
	if err != nil {
		return wrapStore(s.logger, "incrementShareCount", err)
	}
	if !found {
		return apperror.NotFound("post", postID)
	}
	return nil
}
