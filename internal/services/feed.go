package services

import (
	"errors"
	"log/slog"
	"time"

	"threadline/internal/apperror"
	"threadline/internal/models"
	"threadline/internal/repositories"

	"gorm.io/gorm"
)

// Page sizes are fixed per endpoint; offset-based pagination returns a
// next offset only when a full page came back.
const (
	FeedPageSize          = 8
	FollowingFeedPageSize = 10
	MaxSearchLimit        = 20
)

// FeedPost is a post annotated relative to the requesting viewer. All
// three booleans are false for anonymous requests.
type FeedPost struct {
	models.Post
	Author           models.UserCompact `json:"author"`
	IsLiked          bool               `json:"is_liked"`
	IsReposted       bool               `json:"is_reposted"`
	IsAuthorFollowed bool               `json:"is_author_followed"`
	RepostedAt       *time.Time         `json:"reposted_at,omitempty"`
}

// FeedPage is one page of a feed. NextOffset is nil once the feed is
// exhausted.
type FeedPage struct {
	Posts      []FeedPost `json:"posts"`
	NextOffset *int       `json:"next_offset,omitempty"`
}

// Thread is a post with its direct replies, newest-first.
type Thread struct {
	Post    FeedPost   `json:"post"`
	Replies []FeedPost `json:"replies"`
}

// UserSearchResult is a user annotated relative to the viewer.
type UserSearchResult struct {
	models.UserCompact
	Bio           *string `json:"bio,omitempty"`
	FollowerCount int     `json:"follower_count"`
	IsFollowed    bool    `json:"is_followed"`
}

// FeedService produces viewer-relative, paginated post listings. Reads are
// not transactional; they observe whatever the concurrent writers have
// committed.
type FeedService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(db *gorm.DB, logger *slog.Logger) *FeedService {
	return &FeedService{db: db, logger: logger}
}

// annotate joins a batch of posts with the viewer's like/repost state and
// whether the viewer follows each author. One query per relation, keyed by
// the page's IDs, rather than a query per row.
func (s *FeedService) annotate(viewerID *string, posts []models.Post) ([]FeedPost, error) {
	feed := make([]FeedPost, len(posts))

	postIDs := make([]string, len(posts))
	authorIDs := make([]string, 0, len(posts))
	seenAuthors := make(map[string]bool)
	for i, p := range posts {
		postIDs[i] = p.ID
		if !seenAuthors[p.AuthorID] {
			seenAuthors[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	liked := map[string]bool{}
	reposted := map[string]bool{}
	followed := map[string]bool{}
	if viewerID != nil {
		var err error
		if liked, err = repositories.NewPostgresLikeRepository(s.db).LikedSet(*viewerID, postIDs); err != nil {
			return nil, err
		}
		if reposted, err = repositories.NewPostgresRepostRepository(s.db).RepostedSet(*viewerID, postIDs); err != nil {
			return nil, err
		}
		if followed, err = repositories.NewPostgresFollowRepository(s.db).FollowedSet(*viewerID, authorIDs); err != nil {
			return nil, err
		}
	}

	for i, p := range posts {
		feed[i] = FeedPost{
			Post:             p,
			Author:           p.Author.ToCompact(),
			IsLiked:          liked[p.ID],
			IsReposted:       reposted[p.ID],
			IsAuthorFollowed: followed[p.AuthorID],
		}
	}
	return feed, nil
}

func pageOf(posts []FeedPost, offset, limit int) *FeedPage {
	page := &FeedPage{Posts: posts}
	if len(posts) == limit {
		next := offset + limit
		page.NextOffset = &next
	}
	return page
}

// ListFeed returns a page of top-level posts newest-first, optionally
// restricted to one author's profile feed.
func (s *FeedService) ListFeed(viewerID *string, authorUsername *string, offset int) (*FeedPage, error) {
	var authorID *string
	if authorUsername != nil {
		author, err := repositories.NewPostgresUserRepository(s.db).GetUserByUsername(*authorUsername)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("user", *authorUsername)
			}
			return nil, wrapStore(s.logger, "listFeed", err)
		}
		authorID = &author.ID
	}

	posts, err := repositories.NewPostgresPostRepository(s.db).ListTopLevel(authorID, offset, FeedPageSize)
	if err != nil {
		return nil, wrapStore(s.logger, "listFeed", err)
	}
	feed, err := s.annotate(viewerID, posts)
	if err != nil {
		return nil, wrapStore(s.logger, "listFeed", err)
	}
	return pageOf(feed, offset, FeedPageSize), nil
}

// ListFollowingFeed returns a page of top-level posts by authors the viewer
// follows. This feed has no anonymous form; the route layer requires a
// viewer before calling it.
func (s *FeedService) ListFollowingFeed(viewerID string, offset int) (*FeedPage, error) {
	followingIDs, err := repositories.NewPostgresFollowRepository(s.db).FollowingIDs(viewerID)
	if err != nil {
		return nil, wrapStore(s.logger, "listFollowingFeed", err)
	}
	if len(followingIDs) == 0 {
		return &FeedPage{Posts: []FeedPost{}}, nil
	}

	posts, err := repositories.NewPostgresPostRepository(s.db).ListTopLevelByAuthors(followingIDs, offset, FollowingFeedPageSize)
	if err != nil {
		return nil, wrapStore(s.logger, "listFollowingFeed", err)
	}
	feed, err := s.annotate(&viewerID, posts)
	if err != nil {
		return nil, wrapStore(s.logger, "listFollowingFeed", err)
	}
	return pageOf(feed, offset, FollowingFeedPageSize), nil
}

func (s *FeedService) resolveAuthor(username string) (*models.User, error) {
	author, err := repositories.NewPostgresUserRepository(s.db).GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, err
	}
	return author, nil
}

// ListReplies returns every reply the author has written, including
// replies to replies, newest-first.
func (s *FeedService) ListReplies(authorUsername string, viewerID *string) ([]FeedPost, error) {
	author, err := s.resolveAuthor(authorUsername)
	if err != nil {
		return nil, wrapStore(s.logger, "listReplies", err)
	}
	posts, err := repositories.NewPostgresPostRepository(s.db).ListRepliesByAuthor(author.ID)
	if err != nil {
		return nil, wrapStore(s.logger, "listReplies", err)
	}
	feed, err := s.annotate(viewerID, posts)
	if err != nil {
		return nil, wrapStore(s.logger, "listReplies", err)
	}
	return feed, nil
}

// ListReposts returns the posts the author has reposted, joined with the
// original author and content, newest repost first. IsReposted reflects
// the listing itself, so it is always true.
func (s *FeedService) ListReposts(authorUsername string, viewerID *string) ([]FeedPost, error) {
	author, err := s.resolveAuthor(authorUsername)
	if err != nil {
		return nil, wrapStore(s.logger, "listReposts", err)
	}
	rows, err := repositories.NewPostgresRepostRepository(s.db).ListRepostedByUser(author.ID)
	if err != nil {
		return nil, wrapStore(s.logger, "listReposts", err)
	}

	posts := make([]models.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.Post
	}
	if err := s.attachAuthors(posts); err != nil {
		return nil, wrapStore(s.logger, "listReposts", err)
	}

	feed, err := s.annotate(viewerID, posts)
	if err != nil {
		return nil, wrapStore(s.logger, "listReposts", err)
	}
	for i := range feed {
		repostedAt := rows[i].RepostedAt
		feed[i].RepostedAt = &repostedAt
		feed[i].IsReposted = true
	}
	return feed, nil
}

// attachAuthors fills in the Author association on posts produced by raw
// joins, where Preload is not available.
func (s *FeedService) attachAuthors(posts []models.Post) error {
	ids := make([]string, 0, len(posts))
	seen := make(map[string]bool)
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	authors, err := repositories.NewPostgresUserRepository(s.db).GetUsersByIDs(ids)
	if err != nil {
		return err
	}
	byID := make(map[string]models.User, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}
	for i := range posts {
		posts[i].Author = byID[posts[i].AuthorID]
	}
	return nil
}

// SearchPosts matches a case-insensitive substring of post text.
func (s *FeedService) SearchPosts(term string, viewerID *string, limit int) ([]FeedPost, error) {
	if limit < 1 || limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	posts, err := repositories.NewPostgresPostRepository(s.db).SearchPosts(term, limit)
	if err != nil {
		return nil, wrapStore(s.logger, "searchPosts", err)
	}
	feed, err := s.annotate(viewerID, posts)
	if err != nil {
		return nil, wrapStore(s.logger, "searchPosts", err)
	}
	return feed, nil
}

// SearchUsers ranks matches by priority: username prefix beats name prefix
// beats username substring beats name substring.
func (s *FeedService) SearchUsers(term string, viewerID *string, limit int) ([]UserSearchResult, error) {
	if limit < 1 || limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	users, err := repositories.NewPostgresUserRepository(s.db).SearchUsers(term, limit)
	if err != nil {
		return nil, wrapStore(s.logger, "searchUsers", err)
	}

	followed := map[string]bool{}
	if viewerID != nil {
		ids := make([]string, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		if followed, err = repositories.NewPostgresFollowRepository(s.db).FollowedSet(*viewerID, ids); err != nil {
			return nil, wrapStore(s.logger, "searchUsers", err)
		}
	}

	results := make([]UserSearchResult, len(users))
	for i, u := range users {
		results[i] = UserSearchResult{
			UserCompact:   u.ToCompact(),
			Bio:           u.Bio,
			FollowerCount: u.FollowerCount,
			IsFollowed:    followed[u.ID],
		}
	}
	return results, nil
}

// GetThread returns a post with its direct replies, all annotated for the
// viewer. This is the page behind a post permalink.
func (s *FeedService) GetThread(postID string, viewerID *string) (*Thread, error) {
	post, err := repositories.NewPostgresPostRepository(s.db).GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", postID)
		}
		return nil, wrapStore(s.logger, "getThread", err)
	}

	replies, err := repositories.NewPostgresPostRepository(s.db).ListRepliesTo(postID)
	if err != nil {
		return nil, wrapStore(s.logger, "getThread", err)
	}

	annotated, err := s.annotate(viewerID, append([]models.Post{*post}, replies...))
	if err != nil {
		return nil, wrapStore(s.logger, "getThread", err)
	}
	return &Thread{Post: annotated[0], Replies: annotated[1:]}, nil
}
