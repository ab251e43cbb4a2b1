package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"podbot-be/internal/dto"
	"podbot-be/internal/service"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <username> <sessionId>",
	Short: "Print the full chat log of a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.ISessionService) error {
			history, err := svc.FetchHistory(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), history)
			}
			printTranscript(cmd.OutOrStdout(), history)
			return nil
		})
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <username> <sessionId> <message...>",
	Short: "Send a message and print the reply",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.ISessionService) error {
			res, err := svc.SendMessage(ctx, args[0], args[1], &dto.SendMessageRequest{
				Message: strings.Join(args[2:], " "),
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), res)
			}
			if n := len(res.ChatHistory); n > 0 {
				printTranscript(cmd.OutOrStdout(), res.ChatHistory[n-1:])
			}
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <username> <sessionId>",
	Short: "Drop a session's working memory (the chat log is kept)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.ISessionService) error {
			if err := svc.ClearSession(ctx, args[0], args[1]); err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "Cleared working memory of %s", args[1])
			return nil
		})
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild <username> <sessionId>",
	Short: "Replay the chat log into a fresh working memory",
	Long: `Replace the memory server's working memory for a session with the full chat log.

Use this after a send failed between updating working memory and appending to
the chat log, or after working memory was lost.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.ISessionService) error {
			res, err := svc.RebuildWorkingMemory(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printDone(cmd.OutOrStdout(), "Replayed %d messages into %s", res.ReplayedMessages, res.SessionId)
			return nil
		})
	},
}

var memoriesCmd = &cobra.Command{
	Use:   "memories <username>",
	Short: "List a user's long-term memories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc service.ISessionService) error {
			memories, err := svc.FetchMemories(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, memories)
			}
			if len(memories) == 0 {
				dimColor.Fprintln(out, "No memories.")
				return nil
			}
			for _, m := range memories {
				headerColor.Fprintf(out, "%s", m.Id)
				dimColor.Fprintf(out, "  %s  [%s]\n", m.CreatedAt, strings.Join(m.Topics, ", "))
				fmt.Fprintf(out, "  %s\n", m.Content)
			}
			return nil
		})
	},
}

func printTranscript(w io.Writer, history []dto.ChatMessageResponse) {
	for _, msg := range history {
		switch msg.Role {
		case "user":
			userColor.Fprint(w, "you: ")
		case "assistant":
			botColor.Fprint(w, "podbot: ")
		default:
			dimColor.Fprintf(w, "%s: ", msg.Role)
		}
		fmt.Fprintln(w, msg.Content)
	}
}
