package services

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"threadline/internal/apperror"
	"threadline/internal/models"
	"threadline/internal/repositories"

	"github.com/rs/xid"
	"gorm.io/gorm"
)

// MaxPostTextLength is the hard limit on post text, counted in characters
// rather than bytes so multibyte text gets the full allowance.
const MaxPostTextLength = 500

var excessLineBreaks = regexp.MustCompile(`\n{3,}`)

// NormalizeText trims surrounding whitespace and collapses runs of three or
// more consecutive line breaks down to two.
func NormalizeText(text string) string {
	return excessLineBreaks.ReplaceAllString(strings.TrimSpace(text), "\n\n")
}

// PostService owns the post lifecycle: creation with reply linking, and
// deletion with its cascade. Reply-count maintenance on the parent happens
// in the same transaction as the post row, both ways.
type PostService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPostService creates a new PostService
func NewPostService(db *gorm.DB, logger *slog.Logger) *PostService {
	return &PostService{db: db, logger: logger}
}

// Create validates and inserts a post. A post needs text or an image (or
// both); text is normalized and capped at MaxPostTextLength. When ParentID
// is set the new post is a reply: the parent's replyCount is incremented
// atomically and the parent's author notified, unless they replied to
// themselves.
func (s *PostService) Create(authorID string, req models.CreatePostRequest) (*models.Post, error) {
	var text *string
	if req.Text != nil {
		normalized := NormalizeText(*req.Text)
		if normalized != "" {
			text = &normalized
		}
	}
	hasImage := req.Image != nil && *req.Image != ""
	if text == nil && !hasImage {
		return nil, apperror.ValidationFailed("text", "post must have text or an image")
	}
	if text != nil && utf8.RuneCountInString(*text) > MaxPostTextLength {
		return nil, apperror.ValidationFailed("text", "post text must be at most 500 characters")
	}

	exists, err := repositories.NewPostgresUserRepository(s.db).UserExists(authorID)
	if err != nil {
		return nil, wrapStore(s.logger, "createPost", err)
	}
	if !exists {
		return nil, apperror.NotFound("user", authorID)
	}

	var parent *models.Post
	if req.ParentID != nil {
		parent, err = repositories.NewPostgresPostRepository(s.db).GetPostByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("post", *req.ParentID)
			}
			return nil, wrapStore(s.logger, "createPost", err)
		}
	}

	post := &models.Post{
		ID:       xid.New().String(),
		AuthorID: authorID,
		Text:     text,
		ParentID: req.ParentID,
	}
	if hasImage {
		post.Image = req.Image
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewPostgresPostRepository(tx).CreatePost(post); err != nil {
			return err
		}
		if parent == nil {
			return nil
		}
		if err := repositories.NewPostgresPostRepository(tx).IncrementReplyCount(parent.ID); err != nil {
			return err
		}
		return notifyReply(tx, parent.AuthorID, authorID, parent.ID, post.ID)
	})
	if err != nil {
		return nil, wrapStore(s.logger, "createPost", err)
	}
	return post, nil
}

// Delete removes the post and its whole dependent subtree: descendant
// replies, every like and repost of those posts, and notifications
// referencing them. Deleting a reply decrements its parent's replyCount so
// the counter invariant survives deletion. Deleting a missing post is a
// no-op success. Returns the deleted post's parent ID, if it had one, so
// callers can refresh the parent thread.
func (s *PostService) Delete(postID string) (*string, error) {
	post, err := repositories.NewPostgresPostRepository(s.db).GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapStore(s.logger, "deletePost", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		posts := repositories.NewPostgresPostRepository(tx)

		// Collect the subtree level by level. Replies are posts, so a
		// deleted reply takes its own replies with it.
		ids := []string{post.ID}
		frontier := ids
		for len(frontier) > 0 {
			children, err := posts.ChildPostIDs(frontier)
			if err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}

		if err := repositories.NewPostgresLikeRepository(tx).DeleteByPostIDs(ids); err != nil {
			return err
		}
		if err := repositories.NewPostgresRepostRepository(tx).DeleteByPostIDs(ids); err != nil {
			return err
		}
		if err := repositories.NewPostgresNotificationRepository(tx).DeleteByPostIDs(ids); err != nil {
			return err
		}
		if err := posts.DeletePosts(ids); err != nil {
			return err
		}
		if post.ParentID != nil {
			return posts.DecrementReplyCount(*post.ParentID)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStore(s.logger, "deletePost", err)
	}
	return post.ParentID, nil
}
