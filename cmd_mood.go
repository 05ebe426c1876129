package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/manasvi/internal/daily"
	"github.com/robalobadob/manasvi/internal/mood"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Read or record moods",
}

var moodGetCmd = &cobra.Command{
	Use:   "get [YYYY-MM-DD]",
	Short: "Print the mood recorded for a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args, 0)
		if err != nil {
			return err
		}
		store, closeStore, err := openStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		m := mood.Open(cmd.Context(), store).MoodFor(date)
		if m.IsNone() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no mood recorded\n", daily.DateKey(date))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", daily.DateKey(date), m.Emoji, m.Label)
		return nil
	},
}

var moodSetCmd = &cobra.Command{
	Use:   "set <mood> [YYYY-MM-DD]",
	Short: `Record a mood ("Very Sad", "Sad", "Neutral", "Happy", "Very Happy")`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args, 1)
		if err != nil {
			return err
		}
		store, closeStore, err := openStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		m, err := mood.Open(cmd.Context(), store).Select(cmd.Context(), date, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", daily.DateKey(date), m.Emoji, m.Label)
		return nil
	},
}

var moodMonthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "List the moods of a calendar month (default this month)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args, 0)
		if err != nil && len(args) > 0 {
			date, err = daily.ParseKey(args[0] + "-01")
		}
		if err != nil {
			return err
		}
		store, closeStore, err := openStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		entries := mood.Open(cmd.Context(), store).Month(date.Year(), date.Month())
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", e.Date, e.Mood.Emoji, e.Mood.Label)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no moods recorded")
		}
		return nil
	},
}

func init() {
	moodCmd.AddCommand(moodGetCmd, moodSetCmd, moodMonthCmd)
}

// dateArg parses args[i] as a date key, defaulting to today.
func dateArg(args []string, i int) (time.Time, error) {
	if len(args) <= i {
		return time.Now(), nil
	}
	return daily.ParseKey(args[i])
}
