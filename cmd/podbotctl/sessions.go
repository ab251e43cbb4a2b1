package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"podbot-be/internal/service"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List or create sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list <username>",
	Short: "List a user's sessions, most recently active first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.ISessionService) error {
			sessions, err := svc.ListSessions(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, sessions)
			}
			if len(sessions) == 0 {
				dimColor.Fprintln(out, "No sessions.")
				return nil
			}

			headerColor.Fprintf(out, "Sessions for %s\n", args[0])
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLAST ACTIVE")
			for _, s := range sessions {
				fmt.Fprintf(tw, "%s\t%s\n", s.Id, s.LastActive.Local().Format(time.RFC1123))
			}
			return tw.Flush()
		})
	},
}

var sessionsCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create an empty session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.ISessionService) error {
			session, err := svc.CreateSession(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), session)
			}
			printDone(cmd.OutOrStdout(), "Created session %s", session.Id)
			return nil
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsCreateCmd)
}
