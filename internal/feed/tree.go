package feed

import "github.com/Srivenkatesh03/playto/internal/models"

// BuildCommentTree assembles the nested reply forest for one post from its
// flat, creation-ordered comment list. Children land in their parent's
// reply list in input order, so the whole tree stays in creation order.
//
// The pass is O(n) with one id-keyed arena map and performs no fetches; a
// comment whose parent id is missing from the input is dropped rather than
// reported, since attachment is by id lookup, not by position.
func BuildCommentTree(comments []models.Comment) []*models.CommentNode {
	nodes := make(map[int64]*models.CommentNode, len(comments))
	order := make([]*models.CommentNode, 0, len(comments))
	for i := range comments {
		n := &models.CommentNode{Comment: comments[i], Replies: []*models.CommentNode{}}
		nodes[n.ID] = n
		order = append(order, n)
	}

	roots := []*models.CommentNode{}
	for _, n := range order {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*n.ParentID]
		if !ok {
			// orphaned parent reference: excluded by policy
			continue
		}
		parent.Replies = append(parent.Replies, n)
	}
	return roots
}
