package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Srivenkatesh03/playto/internal/models"
)

func TestCreateAndGetPost(t *testing.T) {
	s := newTestStore(t)
	author := seedUser(t, s, "author")

	post, err := s.CreatePost(author, "hello feed")
	require.NoError(t, err)
	assert.Equal(t, "hello feed", post.Content)
	assert.Equal(t, "author", post.Author)
	assert.Equal(t, 0, post.LikeCount)
	assert.Equal(t, 0, post.CommentCount)

	seedCommentAt(t, s, post.ID, author, nil, time.Now().UTC())
	got, err := s.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)

	_, err = s.GetPost(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPostsNewestFirstPaginated(t *testing.T) {
	s := newTestStore(t)
	author := seedUser(t, s, "author")
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	oldest := seedPostAt(t, s, author, "oldest", base.Add(-3*time.Hour))
	middle := seedPostAt(t, s, author, "middle", base.Add(-2*time.Hour))
	newest := seedPostAt(t, s, author, "newest", base.Add(-1*time.Hour))

	page1, err := s.ListPosts(1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, newest, page1[0].ID)
	assert.Equal(t, middle, page1[1].ID)

	page2, err := s.ListPosts(2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, oldest, page2[0].ID)
}

func TestUpdatePost(t *testing.T) {
	s := newTestStore(t)
	author := seedUser(t, s, "author")
	post, err := s.CreatePost(author, "draft")
	require.NoError(t, err)

	updated, err := s.UpdatePost(post.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.NotNil(t, updated.UpdatedAt)

	_, err = s.UpdatePost(9999, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateCommentParentValidation(t *testing.T) {
	s := newTestStore(t)
	author := seedUser(t, s, "author")
	postA, err := s.CreatePost(author, "a")
	require.NoError(t, err)
	postB, err := s.CreatePost(author, "b")
	require.NoError(t, err)

	parent, err := s.CreateComment(postA.ID, nil, author, "root")
	require.NoError(t, err)

	_, err = s.CreateComment(postB.ID, &parent.ID, author, "wrong post")
	assert.ErrorIs(t, err, ErrParentMismatch)

	missing := int64(9999)
	_, err = s.CreateComment(postA.ID, &missing, author, "no parent")
	assert.ErrorIs(t, err, ErrNotFound)

	reply, err := s.CreateComment(postA.ID, &parent.ID, author, "ok")
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
}

func TestCommentsForPostOrdered(t *testing.T) {
	s := newTestStore(t)
	author := seedUser(t, s, "author")
	post, err := s.CreatePost(author, "p")
	require.NoError(t, err)
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	second := seedCommentAt(t, s, post.ID, author, nil, base.Add(2*time.Minute))
	first := seedCommentAt(t, s, post.ID, author, nil, base.Add(1*time.Minute))

	comments, err := s.CommentsForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first, comments[0].ID)
	assert.Equal(t, second, comments[1].ID)
	assert.Equal(t, "author", comments[0].Author)
}

func TestDeletePostCascades(t *testing.T) {
	s := newTestStore(t)
	author := seedUser(t, s, "author")
	fan := seedUser(t, s, "fan")
	now := time.Now().UTC()

	post := seedPostAt(t, s, author, "p", now)
	root := seedCommentAt(t, s, post, author, nil, now)
	reply := seedCommentAt(t, s, post, fan, &root, now)

	seedLikeAt(t, s, fan, models.TargetPost, post, now)
	seedLikeAt(t, s, fan, models.TargetComment, root, now)
	seedLikeAt(t, s, author, models.TargetComment, reply, now)

	require.NoError(t, s.DeletePost(post))

	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM posts`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM comments`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM likes`))

	assert.ErrorIs(t, s.DeletePost(post), ErrNotFound)
}

func TestDeleteCommentRemovesSubtreeAndLikes(t *testing.T) {
	s := newTestStore(t)
	author := seedUser(t, s, "author")
	fan := seedUser(t, s, "fan")
	now := time.Now().UTC()

	post := seedPostAt(t, s, author, "p", now)
	root := seedCommentAt(t, s, post, author, nil, now)
	child := seedCommentAt(t, s, post, fan, &root, now)
	grandchild := seedCommentAt(t, s, post, author, &child, now)

	seedLikeAt(t, s, fan, models.TargetComment, root, now)
	seedLikeAt(t, s, author, models.TargetComment, child, now)
	seedLikeAt(t, s, fan, models.TargetComment, grandchild, now)

	require.NoError(t, s.DeleteComment(child))

	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM comments`))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM likes`))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM likes WHERE target_id = ?`, root))
}

func TestCreateUserDuplicate(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser("a@example.com", "alice", "hash")
	require.NoError(t, err)

	_, err = s.CreateUser("a@example.com", "alice2", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.CreateUser("a2@example.com", "alice", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)
}
