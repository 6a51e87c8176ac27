package repositories

import (
	"errors"

	"threadline/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// All counter mutations are single UPDATE expressions against the stored
// value, so concurrent calls serialize at the row without a read-modify-
// write window. Decrements clamp at zero.
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id string) (*models.Post, error)
	PostExists(id string) (bool, error)
	DeletePosts(ids []string) error
	ChildPostIDs(parentIDs []string) ([]string, error)
	IncrementLikeCount(id string) error
	DecrementLikeCount(id string) error
	IncrementRepostCount(id string) error
	DecrementRepostCount(id string) error
	IncrementReplyCount(id string) error
	DecrementReplyCount(id string) error
	IncrementShareCount(id string) (bool, error)
	ListTopLevel(authorID *string, offset, limit int) ([]models.Post, error)
	ListTopLevelByAuthors(authorIDs []string, offset, limit int) ([]models.Post, error)
	ListRepliesByAuthor(authorID string) ([]models.Post, error)
	ListRepliesTo(parentID string) ([]models.Post, error)
	SearchPosts(term string, limit int) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostgresPostRepository) PostExists(id string) (bool, error) {
	var post models.Post
	err := r.db.Select("id").Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *PostgresPostRepository) DeletePosts(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&models.Post{}).Error
}

// ChildPostIDs returns the IDs of direct replies to any of the given posts.
// The post service walks this level by level to collect a whole subtree.
func (r *PostgresPostRepository) ChildPostIDs(parentIDs []string) ([]string, error) {
	var ids []string
	if len(parentIDs) == 0 {
		return ids, nil
	}
	err := r.db.Model(&models.Post{}).Where("parent_id IN ?", parentIDs).Pluck("id", &ids).Error
	return ids, err
}

func (r *PostgresPostRepository) counterUpdate(id, column string, expr string) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(expr)).Error
}

func (r *PostgresPostRepository) IncrementLikeCount(id string) error {
	return r.counterUpdate(id, "like_count", "like_count + 1")
}

func (r *PostgresPostRepository) DecrementLikeCount(id string) error {
	return r.counterUpdate(id, "like_count", "CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")
}

func (r *PostgresPostRepository) IncrementRepostCount(id string) error {
	return r.counterUpdate(id, "repost_count", "repost_count + 1")
}

func (r *PostgresPostRepository) DecrementRepostCount(id string) error {
	return r.counterUpdate(id, "repost_count", "CASE WHEN repost_count > 0 THEN repost_count - 1 ELSE 0 END")
}

func (r *PostgresPostRepository) IncrementReplyCount(id string) error {
	return r.counterUpdate(id, "reply_count", "reply_count + 1")
}

func (r *PostgresPostRepository) DecrementReplyCount(id string) error {
	return r.counterUpdate(id, "reply_count", "CASE WHEN reply_count > 0 THEN reply_count - 1 ELSE 0 END")
}

// IncrementShareCount bumps the share counter. Every call increments; the
// returned bool reports whether the post existed.
func (r *PostgresPostRepository) IncrementShareCount(id string) (bool, error) {
	res := r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("share_count", gorm.Expr("share_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListTopLevel returns top-level posts newest-first, optionally restricted
// to one author, with authors preloaded for feed annotation.
func (r *PostgresPostRepository) ListTopLevel(authorID *string, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("Author").Where("parent_id IS NULL")
	if authorID != nil {
		q = q.Where("author_id = ?", *authorID)
	}
	err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) ListTopLevelByAuthors(authorIDs []string, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	if len(authorIDs) == 0 {
		return posts, nil
	}
	err := r.db.Preload("Author").
		Where("parent_id IS NULL AND author_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListRepliesByAuthor returns every reply the author has written, at any
// nesting depth, newest-first.
func (r *PostgresPostRepository) ListRepliesByAuthor(authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").
		Where("author_id = ? AND parent_id IS NOT NULL", authorID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) ListRepliesTo(parentID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").
		Where("parent_id = ?", parentID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// SearchPosts matches case-insensitive substrings of post text.
func (r *PostgresPostRepository) SearchPosts(term string, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").
		Where("text IS NOT NULL AND LOWER(text) LIKE LOWER(?)", "%"+term+"%").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
