package feed

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Srivenkatesh03/playto/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrParentMismatch is returned when a reply names a parent comment
	// that belongs to a different post.
	ErrParentMismatch = errors.New("parent comment belongs to a different post")
	ErrDuplicate      = errors.New("already exists")
)

// Pagination bounds for the post list.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Store wraps all feed persistence. Reads are plain snapshot queries;
// the only write that needs transactional care is the like toggle.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ---- users

func (s *Store) CreateUser(email, username, passwordHash string) (*models.User, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`INSERT INTO users(email,username,password_hash,created_at) VALUES(?,?,?,?)`,
		email, username, passwordHash, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, errors.Wrap(err, "insert user")
	}
	id, _ := res.LastInsertId()
	return &models.User{ID: id, Email: email, Username: username, CreatedAt: now}, nil
}

func (s *Store) UserByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u, `SELECT id,email,username,password_hash,created_at FROM users WHERE email = ?`, email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "select user")
	}
	return &u, nil
}

func (s *Store) UserByID(id int64) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u, `SELECT id,email,username,password_hash,created_at FROM users WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "select user")
	}
	return &u, nil
}

// ---- posts

func (s *Store) CreatePost(userID int64, content string) (*models.Post, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`INSERT INTO posts(user_id,content,created_at) VALUES(?,?,?)`,
		userID, content, now)
	if err != nil {
		return nil, errors.Wrap(err, "insert post")
	}
	id, _ := res.LastInsertId()
	return s.GetPost(id)
}

func (s *Store) GetPost(id int64) (*models.Post, error) {
	var p models.Post
	err := s.db.Get(&p, `
		SELECT p.id, p.user_id, p.content, p.created_at, p.updated_at, p.like_count,
			u.username AS author,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "select post")
	}
	return &p, nil
}

// ListPosts returns one page of the feed, newest first.
func (s *Store) ListPosts(page, pageSize int) ([]models.Post, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	posts := []models.Post{}
	err := s.db.Select(&posts, `
		SELECT p.id, p.user_id, p.content, p.created_at, p.updated_at, p.like_count,
			u.username AS author,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
		FROM posts p JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ? OFFSET ?`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "select posts")
	}
	return posts, nil
}

func (s *Store) UpdatePost(id int64, content string) (*models.Post, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`UPDATE posts SET content = ?, updated_at = ? WHERE id = ?`, content, now, id)
	if err != nil {
		return nil, errors.Wrap(err, "update post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetPost(id)
}

// DeletePost removes a post, its comment tree (FK cascade) and every like
// pointing at the post or at any comment under it. Likes are polymorphic,
// so no foreign key can cascade them; they go in the same transaction.
func (s *Store) DeletePost(id int64) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM likes WHERE target_type = 'comment' AND target_id IN (
			SELECT id FROM comments WHERE post_id = ?)`, id); err != nil {
		return errors.Wrap(err, "delete comment likes")
	}
	if _, err := tx.Exec(`DELETE FROM likes WHERE target_type = 'post' AND target_id = ?`, id); err != nil {
		return errors.Wrap(err, "delete post likes")
	}
	res, err := tx.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// ---- comments

func (s *Store) CreateComment(postID int64, parentID *int64, userID int64, content string) (*models.Comment, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}
	if parentID != nil {
		var parentPost int64
		err := s.db.Get(&parentPost, `SELECT post_id FROM comments WHERE id = ?`, *parentID)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		} else if err != nil {
			return nil, errors.Wrap(err, "select parent comment")
		}
		if parentPost != postID {
			return nil, ErrParentMismatch
		}
	}
	now := time.Now().UTC()
	res, err := s.db.Exec(`INSERT INTO comments(post_id,user_id,parent_id,content,created_at) VALUES(?,?,?,?,?)`,
		postID, userID, parentID, content, now)
	if err != nil {
		return nil, errors.Wrap(err, "insert comment")
	}
	id, _ := res.LastInsertId()
	return s.GetComment(id)
}

func (s *Store) GetComment(id int64) (*models.Comment, error) {
	var c models.Comment
	err := s.db.Get(&c, `
		SELECT c.id, c.post_id, c.user_id, c.parent_id, c.content, c.created_at, c.updated_at, c.like_count,
			u.username AS author
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "select comment")
	}
	return &c, nil
}

// CommentsForPost fetches every comment of one post in creation order.
// This is the single upstream fetch the tree builder runs on; callers must
// not fetch per node.
func (s *Store) CommentsForPost(postID int64) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.db.Select(&comments, `
		SELECT c.id, c.post_id, c.user_id, c.parent_id, c.content, c.created_at, c.updated_at, c.like_count,
			u.username AS author
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ?
		ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, errors.Wrap(err, "select comments")
	}
	return comments, nil
}

func (s *Store) UpdateComment(id int64, content string) (*models.Comment, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`, content, now, id)
	if err != nil {
		return nil, errors.Wrap(err, "update comment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetComment(id)
}

// DeleteComment removes a comment, its descendant replies (FK cascade) and
// all likes on the deleted subtree.
func (s *Store) DeleteComment(id int64) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM comments WHERE id = ?
			UNION ALL
			SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM likes WHERE target_type = 'comment' AND target_id IN (SELECT id FROM subtree)`, id); err != nil {
		return errors.Wrap(err, "delete subtree likes")
	}
	res, err := tx.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete comment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return errors.Wrap(tx.Commit(), "commit")
}
