package feed

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Srivenkatesh03/playto/internal/models"
)

func targetTable(kind models.TargetKind) (string, bool) {
	switch kind {
	case models.TargetPost:
		return "posts", true
	case models.TargetComment:
		return "comments", true
	}
	return "", false
}

// ToggleLike flips the like relationship between a user and a target and
// returns the new state plus the updated display counter.
//
// The whole flip runs in one transaction. The UNIQUE(user_id, target_type,
// target_id) constraint is the only concurrency guard: when two first-time
// toggles race, the loser's insert hits the constraint and is reported as
// "already liked" with the counter the winner produced, never as an error
// and never as a second row. The counter moves by a relative SQL increment
// so concurrent toggles on the same target cannot lose updates.
func (s *Store) ToggleLike(userID int64, kind models.TargetKind, targetID int64) (*models.LikeState, error) {
	table, ok := targetTable(kind)
	if !ok {
		return nil, errors.Errorf("unknown like target kind %q", kind)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	var exists int
	if err := tx.Get(&exists, `SELECT COUNT(*) FROM `+table+` WHERE id = ?`, targetID); err != nil {
		return nil, errors.Wrap(err, "check target")
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	var liked bool
	var likeID int64
	err = tx.Get(&likeID, `SELECT id FROM likes WHERE user_id = ? AND target_type = ? AND target_id = ?`,
		userID, kind, targetID)
	switch {
	case err == sql.ErrNoRows:
		created, err := createLike(tx, userID, kind, targetID)
		if err != nil {
			return nil, err
		}
		if created {
			if _, err := tx.Exec(`UPDATE `+table+` SET like_count = like_count + 1 WHERE id = ?`, targetID); err != nil {
				return nil, errors.Wrap(err, "bump like count")
			}
		}
		// not created: a concurrent toggle won the insert race and
		// already moved the counter; report the state it left behind
		liked = true
	case err != nil:
		return nil, errors.Wrap(err, "check like")
	default:
		if _, err := tx.Exec(`DELETE FROM likes WHERE id = ?`, likeID); err != nil {
			return nil, errors.Wrap(err, "delete like")
		}
		if _, err := tx.Exec(`UPDATE `+table+` SET like_count = like_count - 1 WHERE id = ?`, targetID); err != nil {
			return nil, errors.Wrap(err, "drop like count")
		}
		liked = false
	}

	var count int
	if err := tx.Get(&count, `SELECT like_count FROM `+table+` WHERE id = ?`, targetID); err != nil {
		return nil, errors.Wrap(err, "read like count")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return &models.LikeState{Liked: liked, LikeCount: count}, nil
}

// createLike inserts the like row. A uniqueness violation means another
// request created it between our check and insert; that is reported as
// created=false with no error.
func createLike(tx *sqlx.Tx, userID int64, kind models.TargetKind, targetID int64) (bool, error) {
	_, err := tx.Exec(`INSERT INTO likes(user_id,target_type,target_id,created_at) VALUES(?,?,?,?)`,
		userID, kind, targetID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "insert like")
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}
