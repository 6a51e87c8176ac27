package repositories

import (
	"time"

	"threadline/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RepostedPost is a post joined with the timestamp of a user's repost of it.
type RepostedPost struct {
	models.Post
	RepostedAt time.Time
}

// RepostRepository defines the interface for repost data operations
type RepostRepository interface {
	CreateRepostIfAbsent(repost *models.Repost) (bool, error)
	DeleteRepost(postID, userID string) (bool, error)
	HasUserRepostedPost(postID, userID string) (bool, error)
	RepostedSet(userID string, postIDs []string) (map[string]bool, error)
	CountByPostID(postID string) (int64, error)
	ListRepostedByUser(userID string) ([]RepostedPost, error)
	DeleteByPostIDs(postIDs []string) error
}

// PostgresRepostRepository implements RepostRepository for PostgreSQL
type PostgresRepostRepository struct {
	db *gorm.DB
}

// NewPostgresRepostRepository creates a new PostgresRepostRepository
func NewPostgresRepostRepository(db *gorm.DB) *PostgresRepostRepository {
	return &PostgresRepostRepository{db: db}
}

func (r *PostgresRepostRepository) CreateRepostIfAbsent(repost *models.Repost) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(repost)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresRepostRepository) DeleteRepost(postID, userID string) (bool, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Repost{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresRepostRepository) HasUserRepostedPost(postID, userID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Repost{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepostRepository) RepostedSet(userID string, postIDs []string) (map[string]bool, error) {
	set := make(map[string]bool)
	if len(postIDs) == 0 {
		return set, nil
	}
	var ids []string
	err := r.db.Model(&models.Repost{}).
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

func (r *PostgresRepostRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Repost{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// ListRepostedByUser returns the posts the user has reposted joined with
// the repost timestamp, newest repost first.
func (r *PostgresRepostRepository) ListRepostedByUser(userID string) ([]RepostedPost, error) {
	var rows []RepostedPost
	err := r.db.Model(&models.Repost{}).
		Select("posts.*, reposts.created_at AS reposted_at").
		Joins("JOIN posts ON posts.id = reposts.post_id").
		Where("reposts.user_id = ?", userID).
		Order("reposts.created_at DESC, reposts.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *PostgresRepostRepository) DeleteByPostIDs(postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.Where("post_id IN ?", postIDs).Delete(&models.Repost{}).Error
}
