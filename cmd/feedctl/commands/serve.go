package commands

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Srivenkatesh03/playto/internal/auth"
	"github.com/Srivenkatesh03/playto/internal/config"
	"github.com/Srivenkatesh03/playto/internal/db"
	"github.com/Srivenkatesh03/playto/internal/feed"
	"github.com/Srivenkatesh03/playto/internal/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	store := feed.NewStore(dbc)
	sessions := auth.NewManager(dbc, cfg.SessionTTL)
	h := handlers.New(store, sessions)

	log.Printf("listening on %s", cfg.Addr)
	return http.ListenAndServe(cfg.Addr, handlers.WithRecover(handlers.RequestLogger(h.Router())))
}
