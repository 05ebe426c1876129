// main.go
//
// Entry point for the manasvi binary.
//   - manasvi serve           → HTTP + websocket shell for the web client
//   - manasvi mood get|set    → read or record a day's mood from the terminal
//   - manasvi ask chat|journal → one-off assistant replies
//   - manasvi phrases         → content catalog section counts
//
// Configuration comes from the environment and an optional .env file
// (internal/config).

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/manasvi/internal/config"
	"github.com/robalobadob/manasvi/internal/kv"
	"github.com/robalobadob/manasvi/internal/phrases"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "manasvi",
	Short:         "Manasvi mental-wellness companion",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		c.ApplyLogLevel()
		cfg = c
		if err := phrases.Init(cfg.PhrasesFile); err != nil {
			return fmt.Errorf("load phrases: %w", err)
		}
		return nil
	},
}

var ephemeral bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep the mood log in memory instead of DB_PATH")
	rootCmd.AddCommand(serveCmd, moodCmd, askCmd, phrasesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("manasvi")
		os.Exit(1)
	}
}

// storage is the key-value store behind the mood log.
type storage interface {
	kv.Store
	Ping(ctx context.Context) error
}

// openStorage opens DB_PATH, or a memory store with --ephemeral. The
// returned close func is never nil.
func openStorage(ctx context.Context) (storage, func(), error) {
	if ephemeral {
		log.Warn().Msg("ephemeral storage: moods are lost on exit")
		return kv.NewMemory(), func() {}, nil
	}
	db, err := kv.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	return db, func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("close db")
		}
	}, nil
}
