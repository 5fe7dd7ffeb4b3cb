package models

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email,omitempty"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

type Post struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"-"`
	Content   string     `db:"content" json:"content"`
	CreatedAt time.Time  `db:"created_at" json:"created"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated,omitempty"`
	// LikeCount is the denormalized display counter. It tracks toggles
	// incrementally and is never consulted for leaderboard math.
	LikeCount    int    `db:"like_count" json:"like_count"`
	Author       string `db:"author" json:"author"`
	CommentCount int    `db:"comment_count" json:"comment_count"`
}

type Comment struct {
	ID        int64      `db:"id" json:"id"`
	PostID    int64      `db:"post_id" json:"post"`
	UserID    int64      `db:"user_id" json:"-"`
	ParentID  *int64     `db:"parent_id" json:"parent,omitempty"`
	Content   string     `db:"content" json:"content"`
	CreatedAt time.Time  `db:"created_at" json:"created"`
	UpdatedAt *time.Time `db:"updated_at" json:"-"`
	LikeCount int        `db:"like_count" json:"like_count"`
	Author    string     `db:"author" json:"author"`
}

// CommentNode is a comment with its replies attached, in creation order.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}

// TargetKind tags what a like points at. The two kinds are closed; likes
// are polymorphic only across these.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

type Like struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	TargetType TargetKind `db:"target_type"`
	TargetID   int64      `db:"target_id"`
	CreatedAt  time.Time  `db:"created_at"`
}

// LikeState is what a toggle reports back: the new relationship state and
// the updated display counter.
type LikeState struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type LeaderboardEntry struct {
	UserID   int64  `db:"user_id" json:"user_id"`
	Username string `db:"username" json:"username"`
	Karma    int    `db:"karma" json:"karma"`
}
