package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Playto social feed server and tools",
	Long: `feedctl runs the Playto social feed: posts, threaded comments,
likes and a rolling 24-hour karma leaderboard.

Commands:
  serve   run the JSON API server
  seed    fill the database with sample users, posts, comments and likes`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
