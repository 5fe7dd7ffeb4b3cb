package feed

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Srivenkatesh03/playto/internal/models"
)

// Karma scoring: 5 points per distinct post and 1 per distinct comment
// that received at least one like inside the trailing window. A post liked
// by ten users in the window still scores once.
const (
	KarmaWindow     = 24 * time.Hour
	LeaderboardSize = 5
)

// Leaderboard computes the top contributors as of now, fresh on every
// call. The window filters on the like's own timestamp (inclusive lower
// bound), never on when the liked content was created, and it never reads
// the denormalized like counters. Ties break on ascending user id so
// identical inputs always rank identically.
func (s *Store) Leaderboard(now time.Time) ([]models.LeaderboardEntry, error) {
	cutoff := now.UTC().Add(-KarmaWindow)

	entries := []models.LeaderboardEntry{}
	err := s.db.Select(&entries, `
		SELECT user_id, username, karma FROM (
			SELECT u.id AS user_id, u.username AS username,
				5 * (SELECT COUNT(DISTINCT l.target_id)
					FROM likes l JOIN posts p ON p.id = l.target_id
					WHERE l.target_type = 'post' AND l.created_at >= ? AND p.user_id = u.id)
				+ (SELECT COUNT(DISTINCT l.target_id)
					FROM likes l JOIN comments c ON c.id = l.target_id
					WHERE l.target_type = 'comment' AND l.created_at >= ? AND c.user_id = u.id)
				AS karma
			FROM users u
		)
		WHERE karma > 0
		ORDER BY karma DESC, user_id ASC
		LIMIT ?`, cutoff, cutoff, LeaderboardSize)
	if err != nil {
		return nil, errors.Wrap(err, "select leaderboard")
	}
	return entries, nil
}
