package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Srivenkatesh03/playto/internal/models"
)

func treeComment(id int64, parent *int64) models.Comment {
	return models.Comment{
		ID:        id,
		PostID:    1,
		ParentID:  parent,
		Content:   "c",
		CreatedAt: time.Unix(id, 0).UTC(),
	}
}

func ptr(v int64) *int64 { return &v }

func collectIDs(nodes []*models.CommentNode, out map[int64]int) {
	for _, n := range nodes {
		out[n.ID]++
		collectIDs(n.Replies, out)
	}
}

func TestBuildCommentTreeForest(t *testing.T) {
	comments := []models.Comment{
		treeComment(1, nil),
		treeComment(2, nil),
		treeComment(3, ptr(1)),
		treeComment(4, ptr(3)),
		treeComment(5, ptr(1)),
	}

	roots := BuildCommentTree(comments)

	require.Len(t, roots, 2)
	assert.Equal(t, int64(1), roots[0].ID)
	assert.Equal(t, int64(2), roots[1].ID)

	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, int64(3), roots[0].Replies[0].ID)
	assert.Equal(t, int64(5), roots[0].Replies[1].ID)

	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, int64(4), roots[0].Replies[0].Replies[0].ID)

	// every comment appears exactly once somewhere in the forest
	seen := map[int64]int{}
	collectIDs(roots, seen)
	require.Len(t, seen, len(comments))
	for id, n := range seen {
		assert.Equalf(t, 1, n, "comment %d duplicated", id)
	}
}

func TestBuildCommentTreePreservesCreationOrder(t *testing.T) {
	comments := []models.Comment{
		treeComment(1, nil),
		treeComment(2, ptr(1)),
		treeComment(3, ptr(1)),
		treeComment(4, ptr(1)),
	}

	roots := BuildCommentTree(comments)

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 3)
	for i, want := range []int64{2, 3, 4} {
		assert.Equal(t, want, roots[0].Replies[i].ID)
	}
}

func TestBuildCommentTreeDropsOrphans(t *testing.T) {
	comments := []models.Comment{
		treeComment(1, nil),
		treeComment(2, ptr(99)), // parent never fetched
		treeComment(3, ptr(2)),  // child of the orphan still attaches to it
	}

	roots := BuildCommentTree(comments)

	require.Len(t, roots, 1)
	assert.Equal(t, int64(1), roots[0].ID)

	seen := map[int64]int{}
	collectIDs(roots, seen)
	assert.NotContains(t, seen, int64(2))
	assert.NotContains(t, seen, int64(3))
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	roots := BuildCommentTree(nil)
	require.NotNil(t, roots)
	assert.Len(t, roots, 0)
}

func TestBuildCommentTreeDeepNesting(t *testing.T) {
	// 50 comments in chains of depth 3: the builder only ever walks the
	// flat input once, so depth changes nothing about the work done.
	var comments []models.Comment
	id := int64(1)
	for len(comments) < 50 {
		root := id
		comments = append(comments, treeComment(id, nil))
		id++
		child := id
		comments = append(comments, treeComment(id, ptr(root)))
		id++
		comments = append(comments, treeComment(id, ptr(child)))
		id++
	}
	comments = comments[:50]

	roots := BuildCommentTree(comments)

	seen := map[int64]int{}
	collectIDs(roots, seen)
	require.Len(t, seen, 50)
	for id, n := range seen {
		require.Equalf(t, 1, n, "comment %d duplicated", id)
	}
}
