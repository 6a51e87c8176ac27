package repositories

import (
	"threadline/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLikeIfAbsent(like *models.Like) (bool, error)
	DeleteLike(postID, userID string) (bool, error)
	HasUserLikedPost(postID, userID string) (bool, error)
	LikedSet(userID string, postIDs []string) (map[string]bool, error)
	CountByPostID(postID string) (int64, error)
	DeleteByPostIDs(postIDs []string) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLikeIfAbsent inserts the like unless it already exists, reporting
// whether a row was actually inserted. See FollowRepository for the race
// rationale.
func (r *PostgresLikeRepository) CreateLikeIfAbsent(like *models.Like) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLike removes the like, reporting whether a row existed.
func (r *PostgresLikeRepository) DeleteLike(postID, userID string) (bool, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(postID, userID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LikedSet returns which of the given posts the user has liked, as a
// membership map for feed annotation.
func (r *PostgresLikeRepository) LikedSet(userID string, postIDs []string) (map[string]bool, error) {
	set := make(map[string]bool)
	if len(postIDs) == 0 {
		return set, nil
	}
	var ids []string
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *PostgresLikeRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// DeleteByPostIDs removes all likes of the given posts; part of the post
// deletion cascade.
func (r *PostgresLikeRepository) DeleteByPostIDs(postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error
}
