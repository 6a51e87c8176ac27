package services

import (
	"fmt"
	"testing"

	"threadline/internal/apperror"
	"threadline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFeedPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db, testLogger())
	bob := createTestUser(t, db, "bob")

	// Exactly one more post than a page holds.
	for i := 0; i < FeedPageSize+1; i++ {
		createTestPost(t, db, bob, fmt.Sprintf("post %d", i), nil)
	}

	page, err := svc.ListFeed(nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, page.Posts, FeedPageSize)
	require.NotNil(t, page.NextOffset)
	assert.Equal(t, FeedPageSize, *page.NextOffset)

	page, err = svc.ListFeed(nil, nil, *page.NextOffset)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Nil(t, page.NextOffset)
}

func TestListFeedNewestFirstTopLevelOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db, testLogger())
	bob := createTestUser(t, db, "bob")

	older := createTestPost(t, db, bob, "older", nil)
	newer := createTestPost(t, db, bob, "newer", nil)
	createTestPost(t, db, bob, "a reply", &older.ID)

	page, err := svc.ListFeed(nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, newer.ID, page.Posts[0].ID)
	assert.Equal(t, older.ID, page.Posts[1].ID)
}

func TestListFeedAnonymousAnnotationsAreFalse(t *testing.T) {
	db := setupTestDB(t)
	feedSvc := NewFeedService(db, testLogger())
	interactions := NewInteractionService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, bob, "hello", nil)
	require.NoError(t, interactions.Like(post.ID, alice.ID))

	page, err := feedSvc.ListFeed(nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.False(t, page.Posts[0].IsLiked)
	assert.False(t, page.Posts[0].IsReposted)
	assert.False(t, page.Posts[0].IsAuthorFollowed)
	assert.Equal(t, 1, page.Posts[0].LikeCount)
	assert.Equal(t, "bob", page.Posts[0].Author.Username)
}

func TestListFeedViewerAnnotations(t *testing.T) {
	db := setupTestDB(t)
	feedSvc := NewFeedService(db, testLogger())
	interactions := NewInteractionService(db, testLogger())
	social := NewSocialGraphService(db, testLogger())

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	liked := createTestPost(t, db, bob, "liked by alice", nil)
	untouched := createTestPost(t, db, carol, "untouched", nil)

	require.NoError(t, interactions.Like(liked.ID, alice.ID))
	require.NoError(t, interactions.Repost(liked.ID, alice.ID))
	require.NoError(t, social.Follow(bob.ID, alice.ID))

	page, err := feedSvc.ListFeed(&alice.ID, nil, 0)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)

	byID := map[string]FeedPost{}
	for _, p := range page.Posts {
		byID[p.ID] = p
	}
	assert.True(t, byID[liked.ID].IsLiked)
	assert.True(t, byID[liked.ID].IsReposted)
	assert.True(t, byID[liked.ID].IsAuthorFollowed)
	assert.False(t, byID[untouched.ID].IsLiked)
	assert.False(t, byID[untouched.ID].IsAuthorFollowed)
}

func TestListFeedByAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	createTestPost(t, db, bob, "bob post", nil)
	createTestPost(t, db, alice, "alice post", nil)

	username := "bob"
	page, err := svc.ListFeed(nil, &username, 0)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "bob post", *page.Posts[0].Text)

	// username resolution is case-insensitive
	username = "BOB"
	page, err = svc.ListFeed(nil, &username, 0)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 1)

	username = "nosuchuser"
	_, err = svc.ListFeed(nil, &username, 0)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListFollowingFeed(t *testing.T) {
	db := setupTestDB(t)
	feedSvc := NewFeedService(db, testLogger())
	social := NewSocialGraphService(db, testLogger())

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	followedPost := createTestPost(t, db, bob, "from bob", nil)
	createTestPost(t, db, carol, "from carol", nil)

	require.NoError(t, social.Follow(bob.ID, alice.ID))

	page, err := feedSvc.ListFollowingFeed(alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, followedPost.ID, page.Posts[0].ID)
	assert.True(t, page.Posts[0].IsAuthorFollowed)
	assert.Nil(t, page.NextOffset)
}

func TestListFollowingFeedEmptyWhenFollowingNobody(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	createTestPost(t, db, bob, "unseen", nil)

	page, err := svc.ListFollowingFeed(alice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Nil(t, page.NextOffset)
}

func TestListReplies(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	root := createTestPost(t, db, bob, "root", nil)
	reply := createTestPost(t, db, alice, "direct reply", &root.ID)
	nested := createTestPost(t, db, alice, "nested reply", &reply.ID)
	createTestPost(t, db, alice, "not a reply", nil)

	posts, err := svc.ListReplies("alice", nil)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	// Nested replies are included, newest first.
	assert.Equal(t, nested.ID, posts[0].ID)
	assert.Equal(t, reply.ID, posts[1].ID)
}

func TestListReposts(t *testing.T) {
	db := setupTestDB(t)
	feedSvc := NewFeedService(db, testLogger())
	interactions := NewInteractionService(db, testLogger())

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, bob, "original", nil)
	require.NoError(t, interactions.Repost(post.ID, alice.ID))

	posts, err := feedSvc.ListReposts("alice", nil)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
	assert.Equal(t, "original", *posts[0].Text)
	assert.Equal(t, "bob", posts[0].Author.Username)
	assert.True(t, posts[0].IsReposted)
	require.NotNil(t, posts[0].RepostedAt)
}

func TestSearchPosts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db, testLogger())
	bob := createTestUser(t, db, "bob")
	match := createTestPost(t, db, bob, "Gophers assemble", nil)
	createTestPost(t, db, bob, "nothing to see", nil)

	posts, err := svc.SearchPosts("gopher", nil, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, match.ID, posts[0].ID)
}

func TestSearchUsersRanking(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db, testLogger())

	// Crafted so each user lands in a different priority tier for "ann".
	prefix := createTestUser(t, db, "annika")       // username prefix
	createTestUser(t, db, "zoe")                    // no match at all
	substr := createTestUser(t, db, "joanna")       // username substring
	namePrefix := createTestUser(t, db, "bwatson")  // name prefix
	nameSub := createTestUser(t, db, "cthompson")   // name substring
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", namePrefix.ID).Update("name", "Anne Watson").Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", nameSub.ID).Update("name", "Joanne Thompson").Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", substr.ID).Update("name", "zz").Error)

	results, err := svc.SearchUsers("ann", nil, 0)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, prefix.ID, results[0].ID)
	assert.Equal(t, namePrefix.ID, results[1].ID)
	assert.Equal(t, substr.ID, results[2].ID)
	assert.Equal(t, nameSub.ID, results[3].ID)
}

func TestSearchUsersFollowAnnotation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db, testLogger())
	social := NewSocialGraphService(db, testLogger())

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bobby")
	require.NoError(t, social.Follow(bob.ID, alice.ID))

	results, err := svc.SearchUsers("bob", &alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsFollowed)
	assert.Equal(t, 1, results[0].FollowerCount)
}

func TestGetThread(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	root := createTestPost(t, db, bob, "root", nil)
	first := createTestPost(t, db, alice, "first reply", &root.ID)
	second := createTestPost(t, db, alice, "second reply", &root.ID)
	nested := createTestPost(t, db, bob, "nested", &first.ID)

	thread, err := svc.GetThread(root.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, root.ID, thread.Post.ID)
	require.Len(t, thread.Replies, 2) // direct replies only
	assert.Equal(t, second.ID, thread.Replies[0].ID)
	assert.Equal(t, first.ID, thread.Replies[1].ID)

	_, err = svc.GetThread(nested.ID, nil)
	require.NoError(t, err)

	_, err = svc.GetThread("nosuchpost", nil)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
