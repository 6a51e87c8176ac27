package repositories

import (
	"threadline/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollowIfAbsent(follow *models.Follow) (bool, error)
	DeleteFollow(targetID, followerID string) (bool, error)
	IsFollowing(followerID, targetID string) (bool, error)
	FollowingIDs(followerID string) ([]string, error)
	FollowedSet(followerID string, targetIDs []string) (map[string]bool, error)
	CountFollowers(targetID string) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollowIfAbsent inserts the follow edge unless it already exists,
// reporting whether a row was actually inserted. The ON CONFLICT clause
// rides on the composite unique index, so two concurrent follows cannot
// both observe "absent" and double-count.
func (r *PostgresFollowRepository) CreateFollowIfAbsent(follow *models.Follow) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "target_id"}, {Name: "follower_id"}},
		DoNothing: true,
	}).Create(follow)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteFollow removes the edge, reporting whether a row existed.
func (r *PostgresFollowRepository) DeleteFollow(targetID, followerID string) (bool, error) {
	res := r.db.Where("target_id = ? AND follower_id = ?", targetID, followerID).Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, targetID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("target_id = ? AND follower_id = ?", targetID, followerID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) FollowingIDs(followerID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", followerID).Pluck("target_id", &ids).Error
	return ids, err
}

// FollowedSet returns which of the given users the follower follows, as a
// membership map for feed annotation.
func (r *PostgresFollowRepository) FollowedSet(followerID string, targetIDs []string) (map[string]bool, error) {
	set := make(map[string]bool)
	if len(targetIDs) == 0 {
		return set, nil
	}
	var ids []string
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND target_id IN ?", followerID, targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *PostgresFollowRepository) CountFollowers(targetID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("target_id = ?", targetID).Count(&count).Error
	return count, err
}
