package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/manasvi/internal/phrases"
	"github.com/robalobadob/manasvi/internal/resources"
	"github.com/robalobadob/manasvi/internal/speech"
)

var phrasesCmd = &cobra.Command{
	Use:   "phrases",
	Short: "Print content catalog counts and today's affirmation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := phrases.Default()
		t := resources.New(c, nil, speech.LogSpeaker{}, resources.WithSalt(cfg.DailySalt))
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"source":           phrases.Source(),
			"sections":         c.Stats(),
			"dailyAffirmation": t.DailyAffirmation(time.Now()),
		})
	},
}
