package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/manasvi/internal/assistant"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask the assistant once",
}

func askWith(tmpl assistant.Template) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("nothing to send")
		}
		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), gw.Respond(cmd.Context(), tmpl, text))
		return nil
	}
}

var askChatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Send one chat message",
	Args:  cobra.MinimumNArgs(1),
	RunE:  askWith(assistant.Chat),
}

var askJournalCmd = &cobra.Command{
	Use:   "journal <entry...>",
	Short: "Reflect on a diary entry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  askWith(assistant.Journal),
}

func init() {
	askCmd.AddCommand(askChatCmd, askJournalCmd)
}
