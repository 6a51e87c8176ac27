package services

import (
	"strings"
	"testing"

	"threadline/internal/apperror"
	"threadline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello", "hello"},
		{"double break kept", "a\n\nb", "a\n\nb"},
		{"triple break collapsed", "a\n\n\nb", "a\n\nb"},
		{"long run collapsed", "a\n\n\n\n\n\nb", "a\n\nb"},
		{"surrounding whitespace trimmed", "  hi\n", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestCreatePost(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	bob := createTestUser(t, db, "bob")

	post, err := svc.Create(bob.ID, models.CreatePostRequest{Text: strPtr("hello\n\n\n\nworld")})
	require.NoError(t, err)

	assert.Equal(t, bob.ID, post.AuthorID)
	assert.Equal(t, "hello\n\nworld", *post.Text)
	assert.Nil(t, post.ParentID)
	assert.EqualValues(t, 1, countRows(t, db, &models.Post{}, "id = ?", post.ID))
}

func TestCreatePostRequiresTextOrImage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	bob := createTestUser(t, db, "bob")

	_, err := svc.Create(bob.ID, models.CreatePostRequest{})
	require.ErrorIs(t, err, apperror.ErrValidation)

	// whitespace-only text does not count as content
	_, err = svc.Create(bob.ID, models.CreatePostRequest{Text: strPtr("   \n ")})
	require.ErrorIs(t, err, apperror.ErrValidation)

	// image alone is enough
	post, err := svc.Create(bob.ID, models.CreatePostRequest{Image: strPtr("https://example.com/a.png")})
	require.NoError(t, err)
	assert.Nil(t, post.Text)
	assert.NotNil(t, post.Image)
}

func TestCreatePostRejectsOversizedText(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	bob := createTestUser(t, db, "bob")

	_, err := svc.Create(bob.ID, models.CreatePostRequest{Text: strPtr(strings.Repeat("a", MaxPostTextLength+1))})
	require.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(bob.ID, models.CreatePostRequest{Text: strPtr(strings.Repeat("a", MaxPostTextLength))})
	require.NoError(t, err)
}

// The limit counts characters, not bytes, so multibyte text gets the full
// allowance.
func TestCreatePostTextLimitCountsRunes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	bob := createTestUser(t, db, "bob")

	_, err := svc.Create(bob.ID, models.CreatePostRequest{Text: strPtr(strings.Repeat("日", MaxPostTextLength))})
	require.NoError(t, err)

	_, err = svc.Create(bob.ID, models.CreatePostRequest{Text: strPtr(strings.Repeat("日", MaxPostTextLength+1))})
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreatePostUnknownAuthorFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())

	_, err := svc.Create("nosuchuser", models.CreatePostRequest{Text: strPtr("hi")})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateReply(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	parent := createTestPost(t, db, bob, "parent", nil)

	reply, err := svc.Create(alice.ID, models.CreatePostRequest{Text: strPtr("reply"), ParentID: &parent.ID})
	require.NoError(t, err)

	assert.Equal(t, parent.ID, *reply.ParentID)
	assert.Equal(t, 1, reloadPost(t, db, parent.ID).ReplyCount)

	var notif models.Notification
	require.NoError(t, db.Where("recipient_id = ? AND type = ?", bob.ID, models.NotificationTypeReply).First(&notif).Error)
	assert.Equal(t, alice.ID, notif.ActorID)
	assert.Equal(t, parent.ID, *notif.PostID)
	assert.Equal(t, reply.ID, *notif.ReplyID)
}

func TestCreateReplyMissingParentFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	alice := createTestUser(t, db, "alice")

	_, err := svc.Create(alice.ID, models.CreatePostRequest{Text: strPtr("reply"), ParentID: strPtr("nosuchpost")})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}, "author_id = ?", alice.ID))
}

func TestReplyToOwnPostProducesNoNotification(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	bob := createTestUser(t, db, "bob")
	parent := createTestPost(t, db, bob, "parent", nil)

	_, err := svc.Create(bob.ID, models.CreatePostRequest{Text: strPtr("self reply"), ParentID: &parent.ID})
	require.NoError(t, err)

	assert.Equal(t, 1, reloadPost(t, db, parent.ID).ReplyCount)
	assert.EqualValues(t, 0, countRows(t, db, &models.Notification{}, "recipient_id = ?", bob.ID))
}

func TestEveryReplyNotifiesSeparately(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	parent := createTestPost(t, db, bob, "parent", nil)

	_, err := svc.Create(alice.ID, models.CreatePostRequest{Text: strPtr("first"), ParentID: &parent.ID})
	require.NoError(t, err)
	_, err = svc.Create(alice.ID, models.CreatePostRequest{Text: strPtr("second"), ParentID: &parent.ID})
	require.NoError(t, err)

	assert.EqualValues(t, 2, countRows(t, db, &models.Notification{},
		"recipient_id = ? AND type = ?", bob.ID, models.NotificationTypeReply))
}

func TestDeletePostCascades(t *testing.T) {
	db := setupTestDB(t)
	posts := NewPostService(db, testLogger())
	interactions := NewInteractionService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	post := createTestPost(t, db, bob, "doomed", nil)
	reply, err := posts.Create(alice.ID, models.CreatePostRequest{Text: strPtr("reply"), ParentID: &post.ID})
	require.NoError(t, err)
	require.NoError(t, interactions.Like(post.ID, alice.ID))
	require.NoError(t, interactions.Like(reply.ID, carol.ID))
	require.NoError(t, interactions.Repost(post.ID, carol.ID))

	parentID, err := posts.Delete(post.ID)
	require.NoError(t, err)
	assert.Nil(t, parentID)

	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}, "id IN ?", []string{post.ID, reply.ID}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Like{}, "post_id IN ?", []string{post.ID, reply.ID}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Repost{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.Notification{}, "post_id IN ?", []string{post.ID, reply.ID}))
}

func TestDeleteReplyDecrementsParentReplyCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	parent := createTestPost(t, db, bob, "parent", nil)

	reply, err := svc.Create(alice.ID, models.CreatePostRequest{Text: strPtr("reply"), ParentID: &parent.ID})
	require.NoError(t, err)
	require.Equal(t, 1, reloadPost(t, db, parent.ID).ReplyCount)

	parentID, err := svc.Delete(reply.ID)
	require.NoError(t, err)
	require.NotNil(t, parentID)
	assert.Equal(t, parent.ID, *parentID)
	assert.Equal(t, 0, reloadPost(t, db, parent.ID).ReplyCount)
}

func TestDeleteCascadesThroughNestedReplies(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	root := createTestPost(t, db, bob, "root", nil)
	mid, err := svc.Create(alice.ID, models.CreatePostRequest{Text: strPtr("mid"), ParentID: &root.ID})
	require.NoError(t, err)
	leaf, err := svc.Create(bob.ID, models.CreatePostRequest{Text: strPtr("leaf"), ParentID: &mid.ID})
	require.NoError(t, err)

	_, err = svc.Delete(root.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}, "id IN ?", []string{root.ID, mid.ID, leaf.ID}))
}

func TestDeleteMissingPostIsNoop(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(db, testLogger())

	parentID, err := svc.Delete("nosuchpost")
	require.NoError(t, err)
	assert.Nil(t, parentID)
}
