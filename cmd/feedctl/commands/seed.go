package commands

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/Srivenkatesh03/playto/internal/auth"
	"github.com/Srivenkatesh03/playto/internal/config"
	"github.com/Srivenkatesh03/playto/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with sample data",
	Long: `seed creates ten users (password "password123"), a set of posts with
nested comment threads, and likes spread inside and outside the 24-hour
karma window, so the feed and the leaderboard have something to show.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var postContents = []string{
	"Just finished reading an amazing book! Highly recommend.",
	"What's everyone working on this weekend?",
	"Looking for recommendations for learning Go. Any tips?",
	"Beautiful sunset today!",
	"New project launch coming soon. Stay tuned!",
	"Anyone else excited about the new tech releases?",
	"Coffee and coding - perfect combination",
	"Just deployed my first web app!",
	"Question: What's your favorite code editor?",
	"Weekend vibes! Time to relax and recharge.",
}

var commentContents = []string{
	"Great post!",
	"I totally agree with this.",
	"Thanks for sharing!",
	"Interesting perspective.",
	"I have a different opinion on this.",
	"Can you elaborate more?",
	"This is really helpful!",
	"Love this!",
	"Not sure I understand.",
	"Amazing work!",
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return err
	}
	dbc, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer dbc.Close()

	if err := db.Migrate(dbc); err != nil {
		return err
	}

	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(now.UnixNano()))

	hash, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}

	userIDs := make([]int64, 0, 10)
	for i := 1; i <= 10; i++ {
		username := fmt.Sprintf("user%d", i)
		if _, err := dbc.Exec(`INSERT OR IGNORE INTO users(email,username,password_hash,created_at) VALUES(?,?,?,?)`,
			username+"@example.com", username, hash, now); err != nil {
			return err
		}
		var id int64
		if err := dbc.Get(&id, `SELECT id FROM users WHERE username = ?`, username); err != nil {
			return err
		}
		userIDs = append(userIDs, id)
	}
	fmt.Printf("created %d users\n", len(userIDs))

	postIDs := make([]int64, 0, len(postContents))
	for i, content := range postContents {
		created := now.Add(-time.Duration(rng.Intn(72)) * time.Hour)
		res, err := dbc.Exec(`INSERT INTO posts(user_id,content,created_at) VALUES(?,?,?)`,
			userIDs[i%len(userIDs)], content, created)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		postIDs = append(postIDs, id)
	}
	fmt.Printf("created %d posts\n", len(postIDs))

	commentIDs := make([]int64, 0)
	for _, postID := range postIDs {
		var parents []int64
		for depth := 0; depth < 3; depth++ {
			var next []int64
			count := 2 - depth
			if count < 1 {
				count = 1
			}
			for i := 0; i < count; i++ {
				var parentID *int64
				if len(parents) > 0 {
					parentID = &parents[rng.Intn(len(parents))]
				}
				created := now.Add(-time.Duration(rng.Intn(48)) * time.Hour)
				res, err := dbc.Exec(`INSERT INTO comments(post_id,user_id,parent_id,content,created_at) VALUES(?,?,?,?,?)`,
					postID, userIDs[rng.Intn(len(userIDs))], parentID,
					commentContents[rng.Intn(len(commentContents))], created)
				if err != nil {
					return err
				}
				id, _ := res.LastInsertId()
				next = append(next, id)
				commentIDs = append(commentIDs, id)
			}
			parents = next
		}
	}
	fmt.Printf("created %d comments\n", len(commentIDs))

	// Likes spread across 48 hours so roughly half fall inside the karma
	// window and the rest exercise the cutoff.
	likes := 0
	for _, postID := range postIDs {
		for _, uid := range userIDs {
			if rng.Intn(3) != 0 {
				continue
			}
			created := now.Add(-time.Duration(rng.Intn(48)) * time.Hour)
			if _, err := dbc.Exec(`INSERT OR IGNORE INTO likes(user_id,target_type,target_id,created_at) VALUES(?,?,?,?)`,
				uid, "post", postID, created); err != nil {
				return err
			}
			likes++
		}
	}
	for _, commentID := range commentIDs {
		for _, uid := range userIDs {
			if rng.Intn(5) != 0 {
				continue
			}
			created := now.Add(-time.Duration(rng.Intn(48)) * time.Hour)
			if _, err := dbc.Exec(`INSERT OR IGNORE INTO likes(user_id,target_type,target_id,created_at) VALUES(?,?,?,?)`,
				uid, "comment", commentID, created); err != nil {
				return err
			}
			likes++
		}
	}
	fmt.Printf("created %d likes\n", likes)

	// Bring the display counters in line with the seeded like rows.
	if err := syncLikeCounters(dbc); err != nil {
		return err
	}

	fmt.Println("done")
	return nil
}

func syncLikeCounters(dbc *sqlx.DB) error {
	if _, err := dbc.Exec(`UPDATE posts SET like_count =
		(SELECT COUNT(*) FROM likes WHERE target_type = 'post' AND target_id = posts.id)`); err != nil {
		return err
	}
	_, err := dbc.Exec(`UPDATE comments SET like_count =
		(SELECT COUNT(*) FROM likes WHERE target_type = 'comment' AND target_id = comments.id)`)
	return err
}
