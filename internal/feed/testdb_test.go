package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Srivenkatesh03/playto/internal/db"
	"github.com/Srivenkatesh03/playto/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbc, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbc.Close() })
	require.NoError(t, db.Migrate(dbc))
	return NewStore(dbc)
}

func seedUser(t *testing.T, s *Store, username string) int64 {
	t.Helper()
	res, err := s.db.Exec(`INSERT INTO users(email,username,password_hash,created_at) VALUES(?,?,?,?)`,
		username+"@example.com", username, "x", time.Now().UTC())
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedPostAt(t *testing.T, s *Store, userID int64, content string, created time.Time) int64 {
	t.Helper()
	res, err := s.db.Exec(`INSERT INTO posts(user_id,content,created_at) VALUES(?,?,?)`,
		userID, content, created.UTC())
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedCommentAt(t *testing.T, s *Store, postID, userID int64, parentID *int64, created time.Time) int64 {
	t.Helper()
	res, err := s.db.Exec(`INSERT INTO comments(post_id,user_id,parent_id,content,created_at) VALUES(?,?,?,?,?)`,
		postID, userID, parentID, "c", created.UTC())
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedLikeAt(t *testing.T, s *Store, userID int64, kind models.TargetKind, targetID int64, created time.Time) {
	t.Helper()
	_, err := s.db.Exec(`INSERT INTO likes(user_id,target_type,target_id,created_at) VALUES(?,?,?,?)`,
		userID, kind, targetID, created.UTC())
	require.NoError(t, err)
}

func countRows(t *testing.T, s *Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.Get(&n, query, args...))
	return n
}
